package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iudanet/tradetrack/internal/client/api"
	"github.com/iudanet/tradetrack/internal/client/auth"
	clientsync "github.com/iudanet/tradetrack/internal/client/sync"
)

// sessionRemote подставляет токен текущей сессии в табличные вызовы
type sessionRemote struct {
	api  *api.Client
	auth auth.Service
}

var _ clientsync.Remote = (*sessionRemote)(nil)

func (r *sessionRemote) Insert(ctx context.Context, workspaceID, table string, record json.RawMessage) error {
	return r.withToken(ctx, func(token string) error {
		return r.api.Insert(ctx, token, workspaceID, table, record)
	})
}

func (r *sessionRemote) Update(ctx context.Context, workspaceID, table, id string, fields json.RawMessage) error {
	return r.withToken(ctx, func(token string) error {
		return r.api.Update(ctx, token, workspaceID, table, id, fields)
	})
}

func (r *sessionRemote) Delete(ctx context.Context, workspaceID, table, id string) error {
	return r.withToken(ctx, func(token string) error {
		return r.api.Delete(ctx, token, workspaceID, table, id)
	})
}

// withToken выполняет вызов с access token; при 401 обновляет токены и повторяет один раз
func (r *sessionRemote) withToken(ctx context.Context, call func(token string) error) error {
	session, err := r.auth.Session(ctx)
	if err != nil {
		return &api.RemoteError{Kind: api.KindAuth, Err: err}
	}

	err = call(session.AccessToken)
	if !tokenRejected(err) {
		return err
	}

	session, refreshErr := r.auth.Refresh(ctx)
	if refreshErr != nil {
		// ошибка сети при обновлении важнее исходного 401
		if api.IsNetwork(refreshErr) {
			return refreshErr
		}
		return err
	}
	return call(session.AccessToken)
}

// tokenRejected - сервер не принял access token (403 означает отсутствие доступа, а не истекший токен)
func tokenRejected(err error) bool {
	var re *api.RemoteError
	return errors.As(err, &re) && re.StatusCode == http.StatusUnauthorized
}
