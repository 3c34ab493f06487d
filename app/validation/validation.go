// Package validation holds the client-side rules a candidate student record
// must pass before any request is sent to the record gateway. Rules map raw
// form values to per-field messages; fields that pass are absent from the
// result. The roll-number uniqueness check is advisory only — it runs
// against the last-fetched snapshot and the gateway's conflict response
// always has the final word.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"rosterdesk/app/models"
)

// StudentForm carries the raw field values as entered, pre-coercion. Marks
// stays a string here so the rules can distinguish "empty", "not a number"
// and "out of range".
type StudentForm struct {
	Name         string `json:"name" form:"name" validate:"required"`
	RollNumber   string `json:"roll_number" form:"roll_number"`
	StudentClass string `json:"student_class" form:"student_class" validate:"required"`
	Marks        string `json:"marks" form:"marks" validate:"required,number,marks_range"`
	Gender       string `json:"gender" form:"gender" validate:"omitempty,oneof=Female Male Other"`
	Contact      string `json:"contact" form:"contact" validate:"omitempty,contact"`
}

// Normalize trims the whitespace-sensitive fields in place so that
// "required" means non-empty after trimming.
func (f *StudentForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.RollNumber = strings.TrimSpace(f.RollNumber)
	f.StudentClass = strings.TrimSpace(f.StudentClass)
	f.Marks = strings.TrimSpace(f.Marks)
	f.Gender = strings.TrimSpace(f.Gender)
	f.Contact = strings.TrimSpace(f.Contact)
}

// MarksValue returns the parsed marks. Only meaningful once the form passed
// validation.
func (f StudentForm) MarksValue() int {
	v, _ := strconv.Atoi(f.Marks)
	return v
}

// FieldErrors maps a field's JSON name to its human-readable error.
type FieldErrors map[string]string

var (
	// custom validation tags & texts
	contactTag   = "contact"
	contactText  = "must be 7-24 characters using digits, spaces, parentheses, + and -"
	contactRegex = regexp.MustCompile(`^[0-9()+\- ]{7,24}$`)

	marksRangeTag  = "marks_range"
	marksRangeText = "must be 0-100"

	requiredText = "this field is required"
	numberText   = "must be a number"
	genderText   = "must be one of Female, Male or Other"

	rollTakenText = "roll number already taken"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	lang := en.New()
	trans, _ = ut.New(lang, lang).GetTranslator("en")

	validate = validator.New()
	_ = entranslations.RegisterDefaultTranslations(validate, trans)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(contactTag, contactValidation)
	_ = validate.RegisterValidation(marksRangeTag, marksRangeValidation)

	registerTranslation(contactTag, contactText, false)
	registerTranslation(marksRangeTag, marksRangeText, false)
	registerTranslation("required", requiredText, true)
	registerTranslation("number", numberText, true)
	registerTranslation("oneof", genderText, true)
}

func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func contactValidation(fl validator.FieldLevel) bool {
	return contactRegex.MatchString(fl.Field().String())
}

func marksRangeValidation(fl validator.FieldLevel) bool {
	v, err := strconv.Atoi(fl.Field().String())
	if err != nil {
		return false
	}
	return v >= 0 && v <= 100
}

// CheckStudent runs the rules shared by the create and edit flows and
// returns one message per failing field.
func CheckStudent(form StudentForm) FieldErrors {
	errs := FieldErrors{}
	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if _, seen := errs[fe.Field()]; !seen {
					errs[fe.Field()] = fe.Translate(trans)
				}
			}
		}
	}
	return errs
}

// CheckNewStudent additionally requires a roll number and pre-checks it,
// case-insensitively, against the given snapshot of existing records.
func CheckNewStudent(form StudentForm, snapshot []models.Student) FieldErrors {
	errs := CheckStudent(form)
	if _, seen := errs["roll_number"]; seen {
		return errs
	}
	switch {
	case form.RollNumber == "":
		errs["roll_number"] = requiredText
	case RollNumberTaken(form.RollNumber, snapshot):
		errs["roll_number"] = rollTakenText
	}
	return errs
}

// RollNumberTaken reports whether roll matches any record in the snapshot,
// ignoring case. The snapshot may be stale; treat the answer as advisory.
func RollNumberTaken(roll string, snapshot []models.Student) bool {
	for _, st := range snapshot {
		if strings.EqualFold(st.RollNumber, roll) {
			return true
		}
	}
	return false
}
