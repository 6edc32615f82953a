package client

import (
	"strings"

	issuedomain "github.com/trackly/tracker/internal/issues/domain"
	projectdomain "github.com/trackly/tracker/internal/projects/domain"
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

func validateCreateProject(in projectdomain.CreateProject) error {
	return required("name", in.Name)
}

func validateUpdateProject(in projectdomain.UpdateProject) error {
	if in.Name != nil {
		return required("name", *in.Name)
	}
	return nil
}

func validateCreateIssue(in issuedomain.CreateIssue) error {
	if err := required("title", in.Title); err != nil {
		return err
	}
	if in.Status != "" && !in.Status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status " + string(in.Status)}
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "unknown priority " + string(in.Priority)}
	}
	return nil
}

func validateUpdateIssue(in issuedomain.UpdateIssue) error {
	if in.Empty() {
		return &ValidationError{Message: "nothing to update"}
	}
	if in.Title != nil {
		if err := required("title", *in.Title); err != nil {
			return err
		}
	}
	if in.Status != nil && !in.Status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status " + string(*in.Status)}
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "unknown priority " + string(*in.Priority)}
	}
	return nil
}
