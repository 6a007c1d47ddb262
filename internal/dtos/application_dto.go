package dtos

// ApplyRequest arrives as multipart form data next to the resume file.
type ApplyRequest struct {
	JobID       string `form:"jobId" validate:"required"`
	Description string `form:"description" validate:"required"`
	PhoneNo     string `form:"phoneno" validate:"required,phone10"`
}

type InterviewQuestionsQuery struct {
	Count int `form:"count"`
}
