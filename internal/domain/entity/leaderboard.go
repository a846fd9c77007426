package entity

// LeaderboardEntry представляет строку лидерборда. Производное значение:
// пересчитывается из записей scores по запросу и никогда не сохраняется.
// Rank — плотный ранг: пользователи с равным счётом делят ранг, следующий
// отличный счёт получает ранг предыдущего плюс один, без пропусков.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"total_score"`
	Rank     int    `json:"rank"`
}

// UserTotal — суммарный счёт пользователя по всем его записям scores.
// FirstRecordID — id самой ранней записи, тай-брейк при равных суммах.
type UserTotal struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	Total         int    `json:"total"`
	FirstRecordID uint   `json:"first_record_id"`
}

// QuizRecord — одна запись результата по конкретной викторине вместе с именем
// пользователя. Для лидерборда викторины записи НЕ суммируются: каждая попытка
// показывается отдельной строкой.
type QuizRecord struct {
	RecordID uint   `json:"record_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}
