package domain

import "time"

type HandshakeState string

const (
	HandshakeStateOpen     HandshakeState = "OPEN"
	HandshakeStateAccepted HandshakeState = "ACCEPTED"
	HandshakeStateCanceled HandshakeState = "CANCELED"
	HandshakeStateDeclined HandshakeState = "DECLINED"
	HandshakeStateExpired  HandshakeState = "EXPIRED"
)

// HandshakeActionInvite marks a handshake that represents an
// organization-membership invitation.
const HandshakeActionInvite = "INVITE"

type HandshakePartyType string

const (
	HandshakePartyEmail        HandshakePartyType = "EMAIL"
	HandshakePartyAccount      HandshakePartyType = "ACCOUNT"
	HandshakePartyOrganization HandshakePartyType = "ORGANIZATION"
)

type HandshakeParty struct {
	Type HandshakePartyType
	ID   string
}

// Handshake is owned by the remote organization service; it is only
// ever observed and mutated through the gateway, never persisted.
type Handshake struct {
	ID          string
	Action      string
	State       HandshakeState
	Parties     []HandshakeParty
	RequestedAt *time.Time
	ExpiresAt   *time.Time
}

type Organization struct {
	ID                 string
	ARN                string
	FeatureSet         string
	MasterAccountID    string
	MasterAccountEmail string
}

type OrgAccount struct {
	ID       string
	Name     string
	Email    string
	Status   string
	JoinedAt *time.Time
}
