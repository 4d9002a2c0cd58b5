package port

// Sink receives rendered declaration blocks in file order.
type Sink interface {
	Append(block string) error
}
