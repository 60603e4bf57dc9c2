package api

import (
	"time"

	"github.com/de-tools/cloud-atlas/pkg/models/domain"
)

type InviteRequest struct {
	Email string `json:"email"`
}

type InviteResponse struct {
	Message     string `json:"message"`
	HandshakeID string `json:"handshakeId"`
}

type HandshakeActionResponse struct {
	Message string `json:"message"`
}

type HandshakeParty struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type Handshake struct {
	ID          string           `json:"id"`
	Action      string           `json:"action"`
	State       string           `json:"state"`
	Parties     []HandshakeParty `json:"parties"`
	RequestedAt *time.Time       `json:"requestedAt,omitempty"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
}

type Organization struct {
	ID                 string `json:"id"`
	ARN                string `json:"arn"`
	FeatureSet         string `json:"featureSet"`
	MasterAccountID    string `json:"masterAccountId"`
	MasterAccountEmail string `json:"masterAccountEmail"`
}

type OrgAccount struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Status   string     `json:"status"`
	JoinedAt *time.Time `json:"joinedAt,omitempty"`
}

func NewHandshake(h domain.Handshake) Handshake {
	handshake := Handshake{
		ID:          h.ID,
		Action:      h.Action,
		State:       string(h.State),
		Parties:     make([]HandshakeParty, 0, len(h.Parties)),
		RequestedAt: h.RequestedAt,
		ExpiresAt:   h.ExpiresAt,
	}
	for _, p := range h.Parties {
		handshake.Parties = append(handshake.Parties, HandshakeParty{
			Type: string(p.Type),
			ID:   p.ID,
		})
	}
	return handshake
}

func NewOrganization(o domain.Organization) Organization {
	return Organization{
		ID:                 o.ID,
		ARN:                o.ARN,
		FeatureSet:         o.FeatureSet,
		MasterAccountID:    o.MasterAccountID,
		MasterAccountEmail: o.MasterAccountEmail,
	}
}

func NewOrgAccount(a domain.OrgAccount) OrgAccount {
	return OrgAccount{
		ID:       a.ID,
		Name:     a.Name,
		Email:    a.Email,
		Status:   a.Status,
		JoinedAt: a.JoinedAt,
	}
}
