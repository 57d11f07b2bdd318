package domain

import "time"

type Initiator string

const (
	InitiatorGuide  Initiator = "guide"
	InitiatorAgency Initiator = "agency"
)

type GuideRequestType string

const (
	GuideRequestTypePackageAssignment    GuideRequestType = "package_assignment"
	GuideRequestTypeGeneralCollaboration GuideRequestType = "general_collaboration"
)

func (t GuideRequestType) Valid() bool {
	return t == GuideRequestTypePackageAssignment || t == GuideRequestTypeGeneralCollaboration
}

// GuideRequest is a collaboration request between a guide and an agency, in either direction.
type GuideRequest struct {
	ID          string           `json:"id"`
	GuideID     string           `json:"guide_id"`
	GuideName   string           `json:"guide_name"`
	PackageID   *string          `json:"package_id,omitempty"`
	PackageName string           `json:"package_name,omitempty"`
	AgencyID    string           `json:"agency_id"`
	AgencyName  string           `json:"agency_name,omitempty"`
	Message     string           `json:"message"`
	Initiator   Initiator        `json:"initiator"`
	Type        GuideRequestType `json:"type"`
	Status      RequestStatus    `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// PendingKey identifies the slot at most one pending guide request may occupy.
// Target is the package ID for package assignments and the agency ID for general collaboration.
type PendingKey struct {
	Type    GuideRequestType
	GuideID string
	Target  string
}

func (r *GuideRequest) PendingKey() PendingKey {
	key := PendingKey{Type: r.Type, GuideID: r.GuideID, Target: r.AgencyID}
	if r.Type == GuideRequestTypePackageAssignment && r.PackageID != nil {
		key.Target = *r.PackageID
	}
	return key
}

// Requester returns the identity of the party that created the request.
func (r *GuideRequest) Requester() Actor {
	if r.Initiator == InitiatorAgency {
		return Actor{ID: r.AgencyID, Role: RoleAgency}
	}
	return Actor{ID: r.GuideID, Role: RoleGuide}
}

// CounterParty returns the identity allowed to decide the request.
func (r *GuideRequest) CounterParty() Actor {
	if r.Initiator == InitiatorAgency {
		return Actor{ID: r.GuideID, Role: RoleGuide}
	}
	return Actor{ID: r.AgencyID, Role: RoleAgency}
}

// GuideRequestDecision is the outcome of a guide request transition.
type GuideRequestDecision struct {
	Request *GuideRequest `json:"request"`
	// SyncPending is set when the approval side effect failed and was left for reconciliation.
	SyncPending bool `json:"sync_pending"`
}
