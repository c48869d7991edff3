package models

// FlowDirection tags categories and transactions with the direction money
// moves. Categories may allow both.
type FlowDirection string

const (
	FlowDirectionIn   FlowDirection = "IN"
	FlowDirectionOut  FlowDirection = "OUT"
	FlowDirectionBoth FlowDirection = "BOTH"
)

type PartyType string

const (
	PartyTypeCustomer PartyType = "Customer"
	PartyTypeSupplier PartyType = "Supplier"
)

type StaffRole string

const (
	StaffRoleAdmin    StaffRole = "Admin"
	StaffRoleOperator StaffRole = "Operator"
)
