package models

// Student is a single roster record as served by the record gateway. The
// gateway assigns IDs on creation; the roll number is unique across all
// records and immutable once assigned.
type Student struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RollNumber   string `json:"roll_number"`
	StudentClass string `json:"student_class"`
	Marks        Marks  `json:"marks"`
	Gender       Gender `json:"gender,omitempty"`
	Contact      string `json:"contact,omitempty"`
}

// StudentPayload is the body sent to the gateway when creating or updating a
// record. RollNumber is only set on create; updates omit it because the
// field is immutable after creation.
type StudentPayload struct {
	Name         string `json:"name"`
	RollNumber   string `json:"roll_number,omitempty"`
	StudentClass string `json:"student_class"`
	Marks        int    `json:"marks"`
	Gender       string `json:"gender,omitempty"`
	Contact      string `json:"contact,omitempty"`
}
