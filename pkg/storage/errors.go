package storage

type storageError string

const (
	ErrNotFound      = storageError("not found")
	ErrUnknownDriver = storageError("unknown storage driver")
)

func (e storageError) Error() string {
	return string(e)
}
