package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorsIs(t *testing.T) {
	validation := &ValidationErrors{}
	validation.Add("name", ErrNameRequired)

	err := validation.Err()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNameRequired)
}

func TestValidationErrorsNestedFields(t *testing.T) {
	nested := &ValidationErrors{}
	nested.AddMessage("id", "id is required")

	validation := &ValidationErrors{}
	validation.Add("topic", nested)

	err := validation.Err()
	require.Error(t, err)

	var list *ValidationErrors
	require.True(t, errors.As(err, &list))
	require.Len(t, list.Errors, 1)
	require.Equal(t, "topic.id", list.Errors[0].Field)
}

func TestTopicValidateRequiresOwner(t *testing.T) {
	topic := Topic{ID: "t1", Name: "Q1 Risk"}
	err := topic.Validate()
	require.ErrorIs(t, err, ErrProfileRequired)

	topic.ProfileID = "p1"
	require.NoError(t, topic.Validate())
}

func TestCompanyValidateReportsDocumentIndex(t *testing.T) {
	company := Company{ID: "c1", Documents: []CompanyDocument{{ID: "d1"}, {Name: "no id"}}}
	err := company.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "documents[1].id")
}

func TestDuplicateNameErrorMatchesSentinels(t *testing.T) {
	var err error = &DuplicateNameError{Name: "Q1 Risk", ProfileID: "p1", ExistingID: "t1"}
	require.ErrorIs(t, err, ErrDuplicateName)
	require.NotErrorIs(t, err, ErrCreationInFlight)

	err = &DuplicateNameError{Name: "Q1 Risk", ProfileID: "p1", Pending: true}
	require.ErrorIs(t, err, ErrCreationInFlight)
}

func TestRemoteRequestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &RemoteRequestError{Op: "create topic", Message: "connection refused", Cause: cause}
	require.ErrorIs(t, err, ErrRemoteRequest)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "create topic: connection refused", err.Error())
}

func TestFindProfilePrefersID(t *testing.T) {
	profiles := []Profile{
		{ID: "Acme", Name: "Other"},
		{ID: "p1", Name: "Acme"},
	}
	got, ok := FindProfile(profiles, "Acme")
	require.True(t, ok)
	require.Equal(t, "Acme", got.ID)

	got, ok = FindProfile(profiles, "Other")
	require.True(t, ok)
	require.Equal(t, "Acme", got.ID)

	_, ok = FindProfile(profiles, "missing")
	require.False(t, ok)
}

func TestTopicsForProfile(t *testing.T) {
	topics := []Topic{
		{ID: "t1", ProfileID: "p1"},
		{ID: "t2", ProfileID: "p2"},
	}
	require.Len(t, TopicsForProfile(topics, ""), 2)
	filtered := TopicsForProfile(topics, "p2")
	require.Len(t, filtered, 1)
	require.Equal(t, "t2", filtered[0].ID)
}
