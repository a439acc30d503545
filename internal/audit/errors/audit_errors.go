package auditerrors

import (
	"net/http"

	"github.com/ankitsharma97/leaveManagement/internal/shared/apperror"
)

var (
	ErrTransitionNotFound = apperror.New(
		apperror.CodeNotFound,
		"transition record not found",
		http.StatusNotFound,
	)

	ErrInvalidTransitionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid transition record id",
		http.StatusBadRequest,
	)
)
