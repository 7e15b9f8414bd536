package types

import "fmt"

// ServiceKind is the consulting service a customer asks for
type ServiceKind string

const (
	ServiceKindAssessment       ServiceKind = "assessment"
	ServiceKindPenetrationTest  ServiceKind = "penetration_test"
	ServiceKindIncidentResponse ServiceKind = "incident_response"
	ServiceKindTraining         ServiceKind = "training"
	ServiceKindConsulting       ServiceKind = "consulting"
)

// AllServiceKinds returns all valid service kinds
func AllServiceKinds() []ServiceKind {
	return []ServiceKind{
		ServiceKindAssessment,
		ServiceKindPenetrationTest,
		ServiceKindIncidentResponse,
		ServiceKindTraining,
		ServiceKindConsulting,
	}
}

// IsValid checks if the service kind is valid
func (k ServiceKind) IsValid() bool {
	switch k {
	case ServiceKindAssessment,
		ServiceKindPenetrationTest,
		ServiceKindIncidentResponse,
		ServiceKindTraining,
		ServiceKindConsulting:
		return true
	default:
		return false
	}
}

func (k ServiceKind) String() string {
	return string(k)
}

// ParseServiceKind parses a string into a ServiceKind
func ParseServiceKind(s string) (ServiceKind, error) {
	k := ServiceKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid service kind: %s", s)
	}
	return k, nil
}

// ServiceRequestStatus is the processing state of a service request
type ServiceRequestStatus string

const (
	ServiceRequestStatusOpen       ServiceRequestStatus = "open"
	ServiceRequestStatusInProgress ServiceRequestStatus = "in_progress"
	ServiceRequestStatusDone       ServiceRequestStatus = "done"
	ServiceRequestStatusCancelled  ServiceRequestStatus = "cancelled"
)

// AllServiceRequestStatuses returns all valid statuses
func AllServiceRequestStatuses() []ServiceRequestStatus {
	return []ServiceRequestStatus{
		ServiceRequestStatusOpen,
		ServiceRequestStatusInProgress,
		ServiceRequestStatusDone,
		ServiceRequestStatusCancelled,
	}
}

// IsValid checks if the status is valid
func (s ServiceRequestStatus) IsValid() bool {
	switch s {
	case ServiceRequestStatusOpen,
		ServiceRequestStatusInProgress,
		ServiceRequestStatusDone,
		ServiceRequestStatusCancelled:
		return true
	default:
		return false
	}
}

func (s ServiceRequestStatus) String() string {
	return string(s)
}

// ParseServiceRequestStatus parses a string into a ServiceRequestStatus
func ParseServiceRequestStatus(s string) (ServiceRequestStatus, error) {
	status := ServiceRequestStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid service request status: %s", s)
	}
	return status, nil
}
