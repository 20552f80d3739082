package model

type Question struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	QuestionText  string `gorm:"column:question_text;type:text;not null"`
	CorrectAnswer string `gorm:"column:correct_answer;size:255;not null"`
	Option1       string `gorm:"size:255;not null"`
	Option2       string `gorm:"size:255;not null"`
	Option3       string `gorm:"size:255;not null"`
}

func (Question) TableName() string {
	return "questions"
}
