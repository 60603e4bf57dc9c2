package org

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/cloud-atlas/pkg/models/domain"
)

// ErrMissingEmail marks a precondition violation: no remote call was
// made.
var ErrMissingEmail = errors.New("email is required")

// Gateway is the organization-membership surface of the provider. The
// workflow holds two instances of it under different credential roles.
type Gateway interface {
	InviteAccount(ctx context.Context, email string) (string, error)
	ListHandshakes(ctx context.Context) ([]domain.Handshake, error)
	AcceptHandshake(ctx context.Context, handshakeID string) error
	CancelHandshake(ctx context.Context, handshakeID string) error
	DescribeOrganization(ctx context.Context) (*domain.Organization, error)
	ListAccounts(ctx context.Context) ([]domain.OrgAccount, error)
}

type Workflow interface {
	Invite(ctx context.Context, email string) (string, error)
	Accept(ctx context.Context, handshakeID string) error
	Cancel(ctx context.Context, handshakeID string) error
	ListInvitations(ctx context.Context) ([]domain.Handshake, error)
	OrganizationInfo(ctx context.Context) (*domain.Organization, error)
	ListMemberAccounts(ctx context.Context) ([]domain.OrgAccount, error)
}

// workflow drives the invitation lifecycle against the remote
// organization service. The two gateways are distinct credential
// roles, not duplicates: management invites and cancels, member
// accepts and lists what it has received.
type workflow struct {
	management Gateway
	member     Gateway
}

func NewWorkflow(management, member Gateway) Workflow {
	return &workflow{management: management, member: member}
}

// Invite returns the id of an existing OPEN invitation for the email
// when one exists, creating a new one otherwise. The email match is
// case-insensitive. The check-then-act sequence is not transactional
// against the remote system; two concurrent calls for the same email
// can still race into two open handshakes.
func (w *workflow) Invite(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", ErrMissingEmail
	}

	existing, err := w.findOpenInvitation(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	handshakeID, err := w.management.InviteAccount(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to invite %s: %w", email, err)
	}
	return handshakeID, nil
}

// Accept runs under the member role. No local state precondition is
// checked; an invalid-state acceptance is rejected remotely.
func (w *workflow) Accept(ctx context.Context, handshakeID string) error {
	return w.member.AcceptHandshake(ctx, handshakeID)
}

// Cancel runs under the management role.
func (w *workflow) Cancel(ctx context.Context, handshakeID string) error {
	return w.management.CancelHandshake(ctx, handshakeID)
}

// ListInvitations returns the invitations the member account has
// received, dropping handshakes of any other action kind.
func (w *workflow) ListInvitations(ctx context.Context) ([]domain.Handshake, error) {
	handshakes, err := w.member.ListHandshakes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list handshakes: %w", err)
	}

	invitations := make([]domain.Handshake, 0, len(handshakes))
	for _, h := range handshakes {
		if h.Action != domain.HandshakeActionInvite {
			continue
		}
		invitations = append(invitations, h)
	}
	return invitations, nil
}

func (w *workflow) OrganizationInfo(ctx context.Context) (*domain.Organization, error) {
	return w.management.DescribeOrganization(ctx)
}

func (w *workflow) ListMemberAccounts(ctx context.Context) ([]domain.OrgAccount, error) {
	return w.management.ListAccounts(ctx)
}

func (w *workflow) findOpenInvitation(ctx context.Context, email string) (*domain.Handshake, error) {
	handshakes, err := w.member.ListHandshakes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing invitations: %w", err)
	}

	for _, h := range handshakes {
		if h.Action != domain.HandshakeActionInvite || h.State != domain.HandshakeStateOpen {
			continue
		}
		for _, party := range h.Parties {
			if party.Type == domain.HandshakePartyEmail && strings.EqualFold(party.ID, email) {
				return &h, nil
			}
		}
	}
	return nil, nil
}
