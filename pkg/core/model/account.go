package model

// User represents an owner of one or more bank accounts. The total
// balance of a user is defined as the sum of balances of all of their
// accounts and it is supposed to be conserved by a funds transfer,
// although a concurrent reader may or may not observe a conserved sum
// depending on its transaction isolation mode.
type User struct {
	ID   int64
	Name string
}

// Account represents a single bank account of a user.
type Account struct {
	ID      int64
	UserID  int64
	Balance int64
}
