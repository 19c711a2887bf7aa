package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	apperrors "postaibot-webapp/internal/common/errors"
	"postaibot-webapp/internal/common/logger"
	"postaibot-webapp/internal/common/metrics"
	"postaibot-webapp/internal/features/welcome/bridge"
	"postaibot-webapp/internal/features/welcome/host"
	"postaibot-webapp/internal/features/welcome/models"
)

var (
	ErrBridgeRead         = errors.New("telegram bridge read failed")
	ErrMountTargetMissing = errors.New("mount target missing")
)

// Renderer produces the welcome screen fragment for a user.
type Renderer interface {
	Render(w io.Writer, user *models.User) error
}

// Outcome describes one bootstrap run.
type Outcome struct {
	User      *models.User
	Mounted   bool
	BridgeErr error
	MountErr  error
}

// Bootstrapper wires the Telegram bridge to the welcome screen: read the
// user once, find the mount element, render once.
type Bootstrapper struct {
	surface Renderer
}

func NewBootstrapper(surface Renderer) *Bootstrapper {
	return &Bootstrapper{surface: surface}
}

// Run never fails. Bridge errors degrade to an anonymous user; a missing
// mount element leaves the page untouched. Both are logged and reported in
// the Outcome.
func (b *Bootstrapper) Run(ctx context.Context, br bridge.Bridge, h host.Host) Outcome {
	log := logger.FromContext(ctx)

	var out Outcome
	out.User, out.BridgeErr = b.ReadUser(ctx, br)

	var (
		target host.Target
		ok     bool
	)
	if h != nil {
		target, ok = h.Lookup(host.RootElementID)
	}
	if !ok {
		appErr := apperrors.NewMountTargetMissingError(host.RootElementID, ErrMountTargetMissing)
		log.Error().
			Str("error_code", string(appErr.Code)).
			Str("element_id", host.RootElementID).
			Msg("root element not found")
		metrics.ObserveBootstrap(metrics.OutcomeTargetMissing, out.User != nil)
		out.MountErr = appErr
		return out
	}

	var buf bytes.Buffer
	if err := b.surface.Render(&buf, out.User); err != nil {
		out.MountErr = b.renderFailed(ctx, out.User, err)
		return out
	}
	if err := target.Mount(&buf); err != nil {
		out.MountErr = b.renderFailed(ctx, out.User, err)
		return out
	}

	out.Mounted = true
	metrics.ObserveBootstrap(metrics.OutcomeMounted, out.User != nil)
	log.Debug().Bool("authorized", out.User != nil).Msg("welcome screen mounted")
	return out
}

// ReadUser reads the user from the bridge with the same fallback rules as Run.
func (b *Bootstrapper) ReadUser(ctx context.Context, br bridge.Bridge) (user *models.User, err error) {
	if br == nil {
		logger.FromContext(ctx).Debug().Msg("Telegram bridge absent, rendering as guest")
		return nil, nil
	}

	stage := metrics.StageReady
	defer func() {
		if r := recover(); r != nil {
			user = nil
			err = b.bridgeFailed(ctx, stage, fmt.Errorf("panic: %v", r))
		}
	}()

	if e := br.Ready(); e != nil {
		return nil, b.bridgeFailed(ctx, stage, e)
	}

	stage = metrics.StageUser
	u, e := br.User()
	if e != nil {
		return nil, b.bridgeFailed(ctx, stage, e)
	}
	return u, nil
}

func (b *Bootstrapper) bridgeFailed(ctx context.Context, stage string, cause error) error {
	appErr := apperrors.NewBridgeReadError(stage, errors.Join(ErrBridgeRead, cause))
	logger.FromContext(ctx).Error().
		Err(cause).
		Str("error_code", string(appErr.Code)).
		Str("stage", stage).
		Msg("Telegram WebApp init error")
	metrics.ObserveBridgeFailure(stage)
	return appErr
}

func (b *Bootstrapper) renderFailed(ctx context.Context, user *models.User, cause error) error {
	appErr := apperrors.NewRenderError(cause)
	logger.FromContext(ctx).Error().
		Err(cause).
		Str("error_code", string(appErr.Code)).
		Msg("failed to mount welcome screen")
	metrics.ObserveBootstrap(metrics.OutcomeRenderFailed, user != nil)
	return appErr
}
