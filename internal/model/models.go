package model

// All lists every table owned by the service, in creation order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Note{},
	}
}
