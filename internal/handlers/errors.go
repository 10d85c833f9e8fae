package handlers

import (
	"errors"
	"log"

	"github.com/danielgtaylor/huma/v2"
)

// APIError is the body of every error response.
type APIError struct {
	status  int
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (e *APIError) Error() string  { return e.Message }
func (e *APIError) GetStatus() int { return e.status }

func init() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		e := &APIError{status: status, Message: msg}
		for _, err := range errs {
			if err != nil {
				e.Errors = append(e.Errors, err.Error())
			}
		}
		return e
	}
}

var (
	errBibNotFound       = errors.New("bib not found")
	errBibTaken          = errors.New("bib already assigned")
	errNoBibAvailable    = errors.New("no bib available")
	errRunnerNotFound    = errors.New("runner not found")
	errRaceNotFound      = errors.New("race not found")
	errAlreadyRegistered = errors.New("runner already registered for race")
)

// storeError logs a store failure and hides its details from the client.
func storeError(op string, err error) error {
	log.Printf("%s: %v", op, err)
	return huma.Error500InternalServerError("Erreur interne du serveur.")
}
