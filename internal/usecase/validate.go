package usecase

import (
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	entranslations "gopkg.in/go-playground/validator.v9/translations/en"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
)

// AcceptedLicenses is the configured set of license identifiers
// create/update-place accepts (spec.md §3: "license ∈ configured
// accepted set"). Populated at startup by the embedding application;
// an empty set rejects every license.
type AcceptedLicenses map[string]struct{}

// NewAcceptedLicenses builds an AcceptedLicenses set from a list.
func NewAcceptedLicenses(licenses ...string) AcceptedLicenses {
	set := make(AcceptedLicenses, len(licenses))
	for _, l := range licenses {
		set[l] = struct{}{}
	}

	return set
}

func (a AcceptedLicenses) accepts(license string) bool {
	_, ok := a[license]
	return ok
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.NewValidation(apperr.ValidationTitle, "")
	}

	return nil
}

func validateLicense(accepted AcceptedLicenses, license string) error {
	if !accepted.accepts(license) {
		return apperr.NewValidation(apperr.ValidationLicense, license)
	}

	return nil
}

func validateBbox(bbox entity.MapBbox) error {
	if !bbox.Valid() {
		return apperr.NewValidation(apperr.ValidationBbox, "")
	}

	return nil
}

func validatePosition(pos entity.MapPoint) error {
	if !pos.Valid() {
		return apperr.NewValidation(apperr.ValidationPosition, "")
	}

	return nil
}

// validateContact checks the invariants spec.md §4.2's create-place
// describes: "email parseable if present; phone non-empty if
// present".
func validateContact(c *entity.Contact) error {
	if c == nil {
		return nil
	}

	if c.Email != nil && c.Email.IsEmpty() {
		return apperr.NewValidation(apperr.ValidationEmail, "")
	}

	if c.Phone != nil && strings.TrimSpace(*c.Phone) == "" {
		return apperr.NewValidation(apperr.ValidationPhone, "")
	}

	return nil
}

var (
	structValidator  *validator.Validate
	structTranslator ut.Translator
	structValidateMu sync.Once
)

// newStructValidator lazily builds the go-playground/validator instance
// and English translator shared by every struct-tag check, grounded on
// the teacher's net/http.newValidator.
func newStructValidator() (*validator.Validate, ut.Translator) {
	structValidateMu.Do(func() {
		locale := en.New()
		uni := ut.New(locale, locale)
		trans, _ := uni.GetTranslator("en")

		v := validator.New()
		if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
			panic(err)
		}

		structValidator = v
		structTranslator = trans
	})

	return structValidator, structTranslator
}

// validateUrlFields runs struct-tag reflection over in's url-tagged
// fields (NewPlaceInput's Homepage/Image/ImageLink), per spec.md §3's
// "Url ∈ well-formed URL if present". logger receives the translated
// reason for diagnostics; the caller only ever sees ValidationUrl.
func validateUrlFields(logger log.Logger, in entity.NewPlaceInput) error {
	v, trans := newStructValidator()

	err := v.Struct(in)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return apperr.NewValidation(apperr.ValidationUrl, "")
	}

	fe := fieldErrs[0]
	if logger != nil {
		logger.Debugf("place url validation failed: %s", fe.Translate(trans))
	}

	return apperr.NewValidation(apperr.ValidationUrl, fe.Field())
}

func validateRatingValue(v entity.RatingValue) error {
	if !v.Valid() {
		return apperr.NewValidation(apperr.ValidationRatingValue, "")
	}

	return nil
}

func validateRatingContext(c entity.RatingContext) error {
	if !c.Valid() {
		return apperr.NewValidation(apperr.ValidationRatingContext, "")
	}

	return nil
}

func validateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.NewValidation(apperr.ValidationEmptyComment, "")
	}

	return nil
}

func validateEventTimes(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return apperr.NewValidation(apperr.ValidationEndDateBeforeStart, "")
	}

	return nil
}

func validateIdList(ids []entity.Id) error {
	if len(ids) == 0 {
		return apperr.NewValidation(apperr.ValidationEmptyIdList, "")
	}

	return nil
}

func validateLimit(limit, max int) error {
	if limit <= 0 || limit > max {
		return apperr.NewValidation(apperr.ValidationLimit, "")
	}

	return nil
}
