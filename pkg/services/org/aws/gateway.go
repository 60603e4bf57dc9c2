package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/de-tools/cloud-atlas/pkg/models/domain"
	"github.com/de-tools/cloud-atlas/pkg/services/org"
)

type gateway struct {
	client *organizations.Client
}

func NewGateway(cfg awssdk.Config) org.Gateway {
	return &gateway{client: organizations.NewFromConfig(cfg)}
}

func (g *gateway) InviteAccount(ctx context.Context, email string) (string, error) {
	output, err := g.client.InviteAccountToOrganization(ctx, &organizations.InviteAccountToOrganizationInput{
		Target: &orgtypes.HandshakeParty{
			Type: orgtypes.HandshakePartyTypeEmail,
			Id:   awssdk.String(email),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to invite account: %w", err)
	}
	if output.Handshake == nil {
		return "", fmt.Errorf("invite for %s returned no handshake", email)
	}
	return awssdk.ToString(output.Handshake.Id), nil
}

// ListHandshakes returns every handshake visible to the calling
// identity, following pagination to exhaustion.
func (g *gateway) ListHandshakes(ctx context.Context) ([]domain.Handshake, error) {
	var handshakes []domain.Handshake

	paginator := organizations.NewListHandshakesForAccountPaginator(
		g.client,
		&organizations.ListHandshakesForAccountInput{},
	)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list handshakes: %w", err)
		}
		for _, h := range page.Handshakes {
			handshakes = append(handshakes, mapHandshake(h))
		}
	}
	return handshakes, nil
}

func (g *gateway) AcceptHandshake(ctx context.Context, handshakeID string) error {
	_, err := g.client.AcceptHandshake(ctx, &organizations.AcceptHandshakeInput{
		HandshakeId: awssdk.String(handshakeID),
	})
	if err != nil {
		return fmt.Errorf("failed to accept handshake %s: %w", handshakeID, err)
	}
	return nil
}

func (g *gateway) CancelHandshake(ctx context.Context, handshakeID string) error {
	_, err := g.client.CancelHandshake(ctx, &organizations.CancelHandshakeInput{
		HandshakeId: awssdk.String(handshakeID),
	})
	if err != nil {
		return fmt.Errorf("failed to cancel handshake %s: %w", handshakeID, err)
	}
	return nil
}

func (g *gateway) DescribeOrganization(ctx context.Context) (*domain.Organization, error) {
	output, err := g.client.DescribeOrganization(ctx, &organizations.DescribeOrganizationInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe organization: %w", err)
	}
	if output.Organization == nil {
		return nil, fmt.Errorf("describe organization returned no organization")
	}
	o := output.Organization
	return &domain.Organization{
		ID:                 awssdk.ToString(o.Id),
		ARN:                awssdk.ToString(o.Arn),
		FeatureSet:         string(o.FeatureSet),
		MasterAccountID:    awssdk.ToString(o.MasterAccountId),
		MasterAccountEmail: awssdk.ToString(o.MasterAccountEmail),
	}, nil
}

func (g *gateway) ListAccounts(ctx context.Context) ([]domain.OrgAccount, error) {
	var accounts []domain.OrgAccount

	paginator := organizations.NewListAccountsPaginator(g.client, &organizations.ListAccountsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		for _, a := range page.Accounts {
			accounts = append(accounts, domain.OrgAccount{
				ID:       awssdk.ToString(a.Id),
				Name:     awssdk.ToString(a.Name),
				Email:    awssdk.ToString(a.Email),
				Status:   string(a.Status),
				JoinedAt: a.JoinedTimestamp,
			})
		}
	}
	return accounts, nil
}

func mapHandshake(h orgtypes.Handshake) domain.Handshake {
	mapped := domain.Handshake{
		ID:          awssdk.ToString(h.Id),
		Action:      string(h.Action),
		State:       domain.HandshakeState(h.State),
		RequestedAt: h.RequestedTimestamp,
		ExpiresAt:   h.ExpirationTimestamp,
	}
	for _, party := range h.Parties {
		mapped.Parties = append(mapped.Parties, domain.HandshakeParty{
			Type: domain.HandshakePartyType(party.Type),
			ID:   awssdk.ToString(party.Id),
		})
	}
	return mapped
}
