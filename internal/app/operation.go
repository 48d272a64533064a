package app

// LedgerOperation tracks a CLI operation that may mutate the ledger.
// Operations are created in memory with ID=0. Only mutating commands
// persist them (giving them an auto-increment ID from the database).
type LedgerOperation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "success" or "error"
}

// NewLedgerOperation creates a new in-memory operation.
func NewLedgerOperation(operation, parameters string) *LedgerOperation {
	return &LedgerOperation{
		Operation:  operation,
		Parameters: parameters,
		Status:     "success",
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *LedgerOperation) Persisted() bool {
	return op.ID != 0
}

// Observe marks the operation failed when err is non-nil and returns err unchanged.
func (op *LedgerOperation) Observe(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}
