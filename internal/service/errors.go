package service

// Error taxonomy shared by every service. Handlers map these onto HTTP
// statuses; anything else is treated as a store failure.

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

type NotFoundError struct {
	Msg string
}

func (e NotFoundError) Error() string { return e.Msg }

type ConflictError struct {
	Msg string
}

func (e ConflictError) Error() string { return e.Msg }
