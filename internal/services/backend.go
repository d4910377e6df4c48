package services

import "context"

// Backend is the transport the facades call; *api.Client implements it.
type Backend interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
}
