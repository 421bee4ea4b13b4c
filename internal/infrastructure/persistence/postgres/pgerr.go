package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	domerrors "github.com/easebox-25/easebox-backend/internal/domain/errors"
)

const uniqueViolation = "23505"

// translateUnique maps unique-constraint violations onto the same
// domain errors as the engines' pre-checks, so a concurrent writer
// losing the race sees EMAIL_EXISTS rather than a raw storage error.
func translateUnique(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return domerrors.ErrEmailExists
	case "profiles_registration_number_key":
		return domerrors.ErrRCNumberExists
	case "profiles_national_id_key":
		return domerrors.ErrNationalIDExists
	case "oauth_identities_provider_account_key":
		return domerrors.ErrOAuthAccountLinked
	}
	return err
}
