package models

// Master-data records the scheduler looks up for display and default
// population. Simple stores with uniqueness checks; no core logic branches
// on their internals.

type User struct {
	ID           string `json:"id" bson:"id"`
	Registration string `json:"registration,omitempty" bson:"registration,omitempty"`
	Name         string `json:"name" bson:"name"`
	CPF          string `json:"cpf,omitempty" bson:"cpf,omitempty"`
	Login        string `json:"login" bson:"login"`
	PasswordHash string `json:"-" bson:"passwordHash"`
	Role         Role   `json:"role" bson:"role"`
}

type Carrier struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	TaxID string `json:"taxId,omitempty" bson:"taxId,omitempty"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

type Vehicle struct {
	ID      string `json:"id" bson:"id"`
	Plate   string `json:"plate" bson:"plate"`
	Type    string `json:"type,omitempty" bson:"type,omitempty"`
	Carrier string `json:"carrier,omitempty" bson:"carrier,omitempty"`
}

type Customer struct {
	ID               string `json:"id" bson:"id"`
	Name             string `json:"name" bson:"name"`
	TaxID            string `json:"taxId,omitempty" bson:"taxId,omitempty"`
	ReceivingHours   string `json:"receivingHours,omitempty" bson:"receivingHours,omitempty"`
	SchedulingMethod string `json:"schedulingMethod,omitempty" bson:"schedulingMethod,omitempty"`
}

type Driver struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	CPF     string `json:"cpf,omitempty" bson:"cpf,omitempty"`
	Carrier string `json:"carrier,omitempty" bson:"carrier,omitempty"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
}
