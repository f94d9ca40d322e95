package domain

import "time"

// Branch is an organisational unit identified by a two character code.
type Branch struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email,omitempty"`
	IsActive bool    `json:"isActive"`
	AuditFields
}

// BranchDependents counts rows that reference a branch, keyed by table.
type BranchDependents map[string]int64

// Total returns the number of dependent rows across all tables.
func (d BranchDependents) Total() int64 {
	var total int64
	for _, n := range d {
		total += n
	}
	return total
}

// MemberStatus is the membership state of a member.
type MemberStatus string

const (
	MemberActive   MemberStatus = "ACTIVE"
	MemberInactive MemberStatus = "INACTIVE"
)

// Member is a person who makes contributions.
type Member struct {
	MemberID   string       `json:"memberID"`
	BranchCode string       `json:"branchCode"`
	FullName   string       `json:"fullName"`
	Phone      string       `json:"phone"`
	Email      *string      `json:"email,omitempty"`
	Address    string       `json:"address"`
	JoinedOn   time.Time    `json:"joinedOn"`
	Status     MemberStatus `json:"status"`
	AuditFields
}

// Project is a branch scoped fundraising target that contributions are made towards.
type Project struct {
	ProjectID   string     `json:"projectID"`
	BranchCode  string     `json:"branchCode"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsActive    bool       `json:"isActive"`
	AuditFields
}

// Enrollment links a member to a project.
type Enrollment struct {
	MemberID   string    `json:"memberID"`
	ProjectID  string    `json:"projectID"`
	EnrolledAt time.Time `json:"enrolledAt"`
	EnrolledBy string    `json:"enrolledBy"`
}

// ListFilter is the offset paginated filter used by administrative listings.
type ListFilter struct {
	BranchCode *string
	Search     string
	Limit      int
	Offset     int
}
