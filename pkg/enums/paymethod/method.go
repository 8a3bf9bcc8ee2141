package paymethod

type Method struct {
	Name string
}

func (m Method) Code() string {
	return m.Name
}

type Enum struct {
	Cash     Method
	Card     Method
	Transfer Method
	Mixed    Method
}

var Methods = Enum{
	Cash:     Method{Name: "cash"},
	Card:     Method{Name: "card"},
	Transfer: Method{Name: "transfer"},
	Mixed:    Method{Name: "mixed"},
}

var All = []Method{
	Methods.Cash,
	Methods.Card,
	Methods.Transfer,
	Methods.Mixed,
}

// ByName returns the method for a given name, or nil if not found
func ByName(name string) *Method {
	for _, m := range All {
		if m.Name == name {
			return &m
		}
	}
	return nil
}
