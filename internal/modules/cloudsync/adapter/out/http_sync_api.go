package out

import (
	"context"
	"net/http"

	"cradle/internal/modules/cloudsync/domain"
	cloudout "cradle/internal/modules/cloudsync/port/out"
	"cradle/internal/platform/httpapi"
)

type HTTPSyncAPI struct {
	client *httpapi.AuthorizedClient
}

func NewHTTPSyncAPI(client *httpapi.AuthorizedClient) *HTTPSyncAPI {
	return &HTTPSyncAPI{client: client}
}

var _ cloudout.SyncAPI = (*HTTPSyncAPI)(nil)

type uploadResponse struct {
	UploadedAt string `json:"uploadedAt"`
}

func (a *HTTPSyncAPI) Bootstrap(ctx context.Context, snap domain.Snapshot) (string, error) {
	var resp uploadResponse
	if err := a.client.Do(ctx, http.MethodPost, "/v1/sync/bootstrap", snap, &resp); err != nil {
		return "", err
	}
	return resp.UploadedAt, nil
}

func (a *HTTPSyncAPI) Push(ctx context.Context, snap domain.Snapshot) (string, error) {
	var resp uploadResponse
	if err := a.client.Do(ctx, http.MethodPost, "/v1/sync/push", snap, &resp); err != nil {
		return "", err
	}
	return resp.UploadedAt, nil
}

func (a *HTTPSyncAPI) Pull(ctx context.Context) (cloudout.Pulled, error) {
	var resp struct {
		UploadedAt string           `json:"uploadedAt"`
		Snapshot   *domain.Snapshot `json:"snapshot"`
	}
	if err := a.client.Do(ctx, http.MethodGet, "/v1/sync/pull", nil, &resp); err != nil {
		return cloudout.Pulled{}, err
	}
	if resp.Snapshot == nil {
		return cloudout.Pulled{}, nil
	}
	return cloudout.Pulled{Found: true, UploadedAt: resp.UploadedAt, Snapshot: *resp.Snapshot}, nil
}
