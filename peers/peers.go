package peers

import (
	"context"
	"errors"
)

var (
	// ErrUnknownPeer is returned when no secret is registered for a peer.
	ErrUnknownPeer = errors.New("unknown peer")
	// ErrUnavailable wraps backend failures.
	ErrUnavailable = errors.New("peer store unavailable")
)

// Source returns the secret shared with peerID.
type Source interface {
	Secret(ctx context.Context, peerID string) (string, error)
}

// Static is an in-memory Source.
type Static map[string]string

func (s Static) Secret(_ context.Context, peerID string) (string, error) {
	if v := s[peerID]; v != "" {
		return v, nil
	}
	return "", ErrUnknownPeer
}

// Chain consults sources in order and returns the first registered secret.
// A backend failure stops the walk.
type Chain []Source

func (c Chain) Secret(ctx context.Context, peerID string) (string, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		v, err := src.Secret(ctx, peerID)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrUnknownPeer) {
			return "", err
		}
	}
	return "", ErrUnknownPeer
}
