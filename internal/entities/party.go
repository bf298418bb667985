package entities

type Role string

const (
	RoleSeller   Role = "seller"
	RoleDriver   Role = "driver"
	RoleCustomer Role = "customer"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	switch r {
	case RoleSeller, RoleDriver, RoleCustomer:
		return true
	default:
		return false
	}
}

// Party - участник сделки. Закрытый набор реализаций: SellerParty, DriverParty, CustomerParty.
type Party interface {
	Role() Role
	PartyID() string
	isParty()
}

type SellerParty struct {
	ID   string
	Name string
}

func (SellerParty) Role() Role        { return RoleSeller }
func (s SellerParty) PartyID() string { return s.ID }
func (SellerParty) isParty()          {}

type DriverParty struct {
	ID    string
	Name  string
	Phone string
}

func (DriverParty) Role() Role        { return RoleDriver }
func (d DriverParty) PartyID() string { return d.ID }
func (DriverParty) isParty()          {}

type CustomerParty struct {
	ID   string
	Name string
}

func (CustomerParty) Role() Role        { return RoleCustomer }
func (c CustomerParty) PartyID() string { return c.ID }
func (CustomerParty) isParty()          {}

// Session - явный контекст вызывающего, передается в операции вместо глобального "текущего пользователя".
type Session struct {
	UserID string
	Party  Party
}

func NewSession(party Party) Session {
	return Session{
		UserID: party.PartyID(),
		Party:  party,
	}
}

func (s Session) Seller() (SellerParty, bool) {
	seller, ok := s.Party.(SellerParty)
	return seller, ok
}

func (s Session) Driver() (DriverParty, bool) {
	driver, ok := s.Party.(DriverParty)
	return driver, ok
}
