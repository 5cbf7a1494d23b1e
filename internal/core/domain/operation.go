package domain

type OpKind string

const (
	OpRegisterLocation   OpKind = "register_location"
	OpUnregisterLocation OpKind = "unregister_location"
	OpIncrement          OpKind = "increment"
	OpDecrement          OpKind = "decrement"
	OpTransfer           OpKind = "transfer"
	OpObserve            OpKind = "observe"
)

// Operation is one parsed request against the warehouse state.
type Operation struct {
	Kind     OpKind
	Location string // primary location; source for transfers
	Target   string // destination for transfers
	Item     string
	Quantity int
}

// ItemQuantity is one entry of an observe listing.
type ItemQuantity struct {
	Item     string
	Quantity int
}

// Result carries the success payload of an executed operation.
// Items is populated for observe only.
type Result struct {
	Items []ItemQuantity
}
