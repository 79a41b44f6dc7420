package reconciliation

// tx records how to undo each ledger write of one operation.
type tx struct {
	undo []func()
}

func (t *tx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

// rollback undoes the recorded writes, newest first.
func (t *tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}
