package models

import "time"

// ---------- Locations ----------

const (
	LocationDock = "Dock"
	LocationGate = "Gate"
)

func ValidLocation(loc string) bool {
	return loc == LocationDock || loc == LocationGate
}

// ---------- Flow direction ----------

const (
	FlowInbound  = "inbound"
	FlowOutbound = "outbound" // placeholder, not implemented
	FlowTransfer = "transfer" // placeholder, not implemented
)

// ---------- Status ----------

// Status is the stored operational state of a slot. The display-only LATE
// state is computed at read time by the visits package and is deliberately
// absent here so it can never be persisted.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusArrived   Status = "ARRIVED"
	StatusUnloading Status = "UNLOADING"
	StatusFinished  Status = "FINISHED"
	StatusAnomaly   Status = "ANOMALY"
	StatusResolved  Status = "RESOLVED"
)

// ---------- Anomaly root causes ----------

type AnomalyReason string

const (
	ReasonNoShow                   AnomalyReason = "NO_SHOW"
	ReasonMissingOrWrongPO         AnomalyReason = "MISSING_OR_WRONG_PO"
	ReasonMissingOrWrongInvoice    AnomalyReason = "MISSING_OR_WRONG_INVOICE"
	ReasonMissingOrWrongFreight    AnomalyReason = "MISSING_OR_WRONG_FREIGHT_ORDER"
	ReasonMissingOrWrongWaybill    AnomalyReason = "MISSING_OR_WRONG_WAYBILL"
	ReasonMissingOrWrongDocument   AnomalyReason = "MISSING_OR_WRONG_DOCUMENT"
	ReasonInspectionMismatch       AnomalyReason = "INSPECTION_MISMATCH"
	ReasonDriverMissingPPE         AnomalyReason = "DRIVER_MISSING_PPE"
	ReasonQueueDelay               AnomalyReason = "QUEUE_DELAY"
	ReasonDamagedCargo             AnomalyReason = "DAMAGED_CARGO"
	ReasonUnsuitableVehicle        AnomalyReason = "UNSUITABLE_VEHICLE"
	ReasonOther                    AnomalyReason = "OTHER"
)

var anomalyReasons = map[AnomalyReason]bool{
	ReasonNoShow:                 true,
	ReasonMissingOrWrongPO:       true,
	ReasonMissingOrWrongInvoice:  true,
	ReasonMissingOrWrongFreight:  true,
	ReasonMissingOrWrongWaybill:  true,
	ReasonMissingOrWrongDocument: true,
	ReasonInspectionMismatch:     true,
	ReasonDriverMissingPPE:       true,
	ReasonQueueDelay:             true,
	ReasonDamagedCargo:           true,
	ReasonUnsuitableVehicle:      true,
	ReasonOther:                  true,
}

func ValidAnomalyReason(r AnomalyReason) bool {
	return anomalyReasons[r]
}

// ---------- Booking details ----------

// Details is the structured payload entered at booking time. PurchaseOrder,
// Invoice, Buyer and FreightOrder are mandatory; the rest is informational.
type Details struct {
	PurchaseOrder string `json:"purchaseOrder" bson:"purchaseOrder"`
	Invoice       string `json:"invoice" bson:"invoice"`
	Supplier      string `json:"supplier,omitempty" bson:"supplier,omitempty"`
	SupplierTaxID string `json:"supplierTaxId,omitempty" bson:"supplierTaxId,omitempty"`
	Requester     string `json:"requester,omitempty" bson:"requester,omitempty"`
	Buyer         string `json:"buyer" bson:"buyer"`
	Carrier       string `json:"carrier,omitempty" bson:"carrier,omitempty"`
	CarrierTaxID  string `json:"carrierTaxId,omitempty" bson:"carrierTaxId,omitempty"`
	FreightOrder  string `json:"freightOrder" bson:"freightOrder"`
	Waybill       string `json:"waybill,omitempty" bson:"waybill,omitempty"`
	VehicleType   string `json:"vehicleType,omitempty" bson:"vehicleType,omitempty"`
	Note          string `json:"note,omitempty" bson:"note,omitempty"`
}

// VehicleTypes accepted on the booking form.
var VehicleTypes = []string{
	"Moto", "Passeio", "Caminhonete", "Pickup", "Utilitário",
	"VUC", "3/4", "Toco", "Truck", "Carreta", "Container",
}

// ---------- Slot ----------

// Resolution records how a flagged anomaly was closed out.
type Resolution struct {
	Actor      string    `json:"actor" bson:"actor"`
	Action     string    `json:"action" bson:"action"`
	ResolvedAt time.Time `json:"resolvedAt" bson:"resolvedAt"`
}

// Slot is the atomic unit of allocation: one 10-minute window at one
// location on one date. At most one slot document exists per
// (date, location, time) key; the slots collection carries a unique
// compound index on that triple.
type Slot struct {
	ID            string        `json:"id" bson:"id"`
	Date          string        `json:"date" bson:"date"` // "2006-01-02"
	Time          string        `json:"time" bson:"time"` // "HH:MM", 10-minute grid
	Location      string        `json:"location" bson:"location"`
	OwnerID       string        `json:"ownerId" bson:"ownerId"`
	OwnerName     string        `json:"ownerName" bson:"ownerName"`
	VisitID       string        `json:"visitId,omitempty" bson:"visitId,omitempty"`
	Flow          string        `json:"flow" bson:"flow"`
	Details       Details       `json:"details" bson:"details"`
	Status        Status        `json:"status" bson:"status"`
	StatusNote    string        `json:"statusNote,omitempty" bson:"statusNote,omitempty"`
	AnomalyReason AnomalyReason `json:"anomalyReason,omitempty" bson:"anomalyReason,omitempty"`
	Resolved      bool          `json:"resolved" bson:"resolved"`
	Resolution    *Resolution   `json:"resolution,omitempty" bson:"resolution,omitempty"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
}

// ---------- Actor and roles ----------

type Role string

const (
	RoleMaster   Role = "MASTER"
	RoleGestor   Role = "GESTOR"
	RoleUser     Role = "USER"
	RoleTerceiro Role = "TERCEIRO"
)

type Permissions struct {
	Level                   int
	Label                   string
	CanManageMasterData     bool
	CanDeleteOthersBookings bool
}

var RolePermissions = map[Role]Permissions{
	RoleMaster:   {Level: 4, Label: "Diretoria", CanManageMasterData: true, CanDeleteOthersBookings: true},
	RoleGestor:   {Level: 3, Label: "Gestor Logística", CanManageMasterData: true, CanDeleteOthersBookings: true},
	RoleUser:     {Level: 2, Label: "Analista/Operador", CanManageMasterData: false, CanDeleteOthersBookings: false},
	RoleTerceiro: {Level: 1, Label: "Transportadora/Portaria", CanManageMasterData: false, CanDeleteOthersBookings: false},
}

// Actor is the authenticated operator performing an action. It is always
// passed explicitly; the core never consults ambient session state.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

func (a Actor) Permissions() Permissions {
	return RolePermissions[a.Role]
}

// ReadOnly reports whether the actor holds the lowest permission level.
func (a Actor) ReadOnly() bool {
	return a.Permissions().Level <= 1
}
