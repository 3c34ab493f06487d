package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosterdesk/app/models"
)

func validForm() StudentForm {
	return StudentForm{
		Name:         "Jane Doe",
		RollNumber:   "R100",
		StudentClass: "10A",
		Marks:        "85",
	}
}

func TestCheckStudentValid(t *testing.T) {
	errs := CheckStudent(validForm())
	assert.Empty(t, errs)
}

func TestCheckStudentNameRequired(t *testing.T) {
	form := validForm()
	form.Name = "   "
	form.Normalize()

	errs := CheckStudent(form)
	require.Len(t, errs, 1)
	assert.Equal(t, "this field is required", errs["name"])
}

func TestCheckStudentClassRequired(t *testing.T) {
	form := validForm()
	form.StudentClass = ""

	errs := CheckStudent(form)
	require.Contains(t, errs, "student_class")
	assert.NotContains(t, errs, "name")
}

func TestCheckStudentMarks(t *testing.T) {
	tests := []struct {
		name  string
		marks string
		want  string
	}{
		{"missing", "", "this field is required"},
		{"letters", "abc", "must be a number"},
		{"signed", "-5", "must be a number"},
		{"decimal", "8.5", "must be a number"},
		{"too high", "150", "must be 0-100"},
		{"just above range", "101", "must be 0-100"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.Marks = tc.marks

			errs := CheckStudent(form)
			require.Contains(t, errs, "marks")
			assert.Equal(t, tc.want, errs["marks"])
			assert.Len(t, errs, 1, "only marks may fail")
		})
	}
}

func TestCheckStudentMarksBoundaries(t *testing.T) {
	for _, marks := range []string{"0", "100"} {
		form := validForm()
		form.Marks = marks
		assert.Empty(t, CheckStudent(form), "marks %s must pass", marks)
	}
}

func TestCheckStudentContact(t *testing.T) {
	form := validForm()
	form.Contact = "abc"

	errs := CheckStudent(form)
	require.Contains(t, errs, "contact")
	assert.Len(t, errs, 1)

	form.Contact = "+256 (414) 123-456"
	assert.Empty(t, CheckStudent(form))

	form.Contact = "123456" // one short of the minimum
	assert.Contains(t, CheckStudent(form), "contact")

	form.Contact = "" // optional
	assert.Empty(t, CheckStudent(form))
}

func TestCheckStudentGender(t *testing.T) {
	form := validForm()
	form.Gender = "Female"
	assert.Empty(t, CheckStudent(form))

	form.Gender = "unknown"
	errs := CheckStudent(form)
	require.Contains(t, errs, "gender")
	assert.Equal(t, "must be one of Female, Male or Other", errs["gender"])
}

func TestCheckNewStudentRollNumber(t *testing.T) {
	snapshot := []models.Student{
		{RollNumber: "R100"},
		{RollNumber: "r200"},
	}

	form := validForm()
	form.RollNumber = ""
	errs := CheckNewStudent(form, snapshot)
	assert.Equal(t, "this field is required", errs["roll_number"])

	form.RollNumber = "r100" // case-insensitive match
	errs = CheckNewStudent(form, snapshot)
	assert.Equal(t, "roll number already taken", errs["roll_number"])

	form.RollNumber = "R300"
	assert.Empty(t, CheckNewStudent(form, snapshot))
}

func TestCheckStudentDeterministic(t *testing.T) {
	form := validForm()
	form.Name = ""
	form.Marks = "abc"

	first := CheckStudent(form)
	second := CheckStudent(form)
	assert.Equal(t, first, second)
}

func TestNormalizeTrims(t *testing.T) {
	form := StudentForm{
		Name:         "  Jane  ",
		RollNumber:   " R1 ",
		StudentClass: " 10A ",
		Marks:        " 85 ",
	}
	form.Normalize()

	assert.Equal(t, "Jane", form.Name)
	assert.Equal(t, "R1", form.RollNumber)
	assert.Equal(t, "10A", form.StudentClass)
	assert.Equal(t, "85", form.Marks)
}
