package gifplayer

// DrawOperation is interface to encapsulate the drawing operation
type DrawOperation interface {
	Draw(surface DrawingSurface) error
}

// Paint runs operations on surface inside one Begin/End transaction.
// The first failing operation is reported, and End still runs so that the
// surface can discard the unfinished batch.
func Paint(surface DrawingSurface, ops ...DrawOperation) error {
	if err := surface.Begin(); err != nil {
		return err
	}

	var opErr error
	for _, op := range ops {
		if opErr = op.Draw(surface); opErr != nil {
			break
		}
	}

	err := surface.End()
	if opErr != nil {
		return opErr
	}
	return err
}
