package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Количество слотов под варианты ответа в хранилище. Недостающие варианты
// дополняются пустыми строками (нормализация, аналог NULL-колонок option3/option4).
const OptionSlots = 4

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос викторины.
// Options всегда хранит ровно OptionSlots элементов, пустая строка означает
// отсутствующий вариант. CorrectOption хранится 1-базным: 1 указывает на
// первый вариант. Клиент выбирает вариант 0-базным индексом, сравнение
// выполняется как selected == CorrectOption-1.
type Question struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	QuizID        uint        `gorm:"not null;index" json:"quiz_id"`
	Text          string      `gorm:"size:500;not null" json:"question_text"`
	Options       StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectOption int         `gorm:"not null" json:"-"` // Скрыто от клиента
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// PresentedOptions возвращает только непустые варианты в порядке хранения.
// Именно этот список видит пользователь, и по его индексам идёт выбор ответа.
func (q *Question) PresentedOptions() []string {
	options := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt != "" {
			options = append(options, opt)
		}
	}
	return options
}

// IsCorrect проверяет 0-базный выбранный индекс против 1-базного CorrectOption
func (q *Question) IsCorrect(selectedOption int) bool {
	return selectedOption == q.CorrectOption-1
}

// IsValidOption проверяет, указывает ли выбранный индекс на существующий вариант
func (q *Question) IsValidOption(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption < len(q.PresentedOptions())
}
