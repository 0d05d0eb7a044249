package services

import (
	"context"

	"github.com/dmitrijs2005/dashgate/internal/client/client"
	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/dmitrijs2005/dashgate/internal/client/tokenstore"
	"golang.org/x/sync/errgroup"
)

// PendingUserWorkflow drives the admin-side activation of pending accounts.
//
// Callers are expected to check AdminAccessPolicy first. Errors from the
// server are returned as is; nothing is retried and no local list is ever
// edited in place: after an activation the pending list is fetched again.
type PendingUserWorkflow interface {
	ListPending(ctx context.Context) ([]models.User, error)
	Activate(ctx context.Context, userID int64) error
	ActivateAndRefresh(ctx context.Context, userID int64) ([]models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	ListAllUserIDs(ctx context.Context) ([]int64, error)
	Overview(ctx context.Context) (*models.AdminOverview, error)
}

type pendingUserWorkflow struct {
	client client.Client
	store  tokenstore.Store
}

func NewPendingUserWorkflow(c client.Client, store tokenstore.Store) PendingUserWorkflow {
	return &pendingUserWorkflow{client: c, store: store}
}

func (w *pendingUserWorkflow) ListPending(ctx context.Context) ([]models.User, error) {
	token, err := bearer(ctx, w.store)
	if err != nil {
		return nil, err
	}
	return w.client.PendingUsers(ctx, token)
}

func (w *pendingUserWorkflow) Activate(ctx context.Context, userID int64) error {
	token, err := bearer(ctx, w.store)
	if err != nil {
		return err
	}
	_, err = w.client.ActivateUser(ctx, token, userID)
	return err
}

// ActivateAndRefresh activates userID and returns the pending list as the
// server reports it afterwards. A failed activation is returned without
// refreshing.
func (w *pendingUserWorkflow) ActivateAndRefresh(ctx context.Context, userID int64) ([]models.User, error) {
	if err := w.Activate(ctx, userID); err != nil {
		return nil, err
	}
	return w.ListPending(ctx)
}

func (w *pendingUserWorkflow) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	token, err := bearer(ctx, w.store)
	if err != nil {
		return nil, err
	}
	return w.client.User(ctx, token, userID)
}

func (w *pendingUserWorkflow) ListAllUserIDs(ctx context.Context) ([]int64, error) {
	token, err := bearer(ctx, w.store)
	if err != nil {
		return nil, err
	}
	return w.client.UserIDs(ctx, token)
}

// Overview loads the pending list and all user ids concurrently. The first
// failure cancels the other request and is returned.
func (w *pendingUserWorkflow) Overview(ctx context.Context) (*models.AdminOverview, error) {
	token, err := bearer(ctx, w.store)
	if err != nil {
		return nil, err
	}

	var out models.AdminOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := w.client.PendingUsers(gctx, token)
		out.Pending = users
		return err
	})
	g.Go(func() error {
		ids, err := w.client.UserIDs(gctx, token)
		out.UserIDs = ids
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
