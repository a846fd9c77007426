// Package errors содержит сентинельные ошибки приложения.
// Сервисы оборачивают их через fmt.Errorf("%w: ..."), а HTTP-слой
// сопоставляет через errors.Is со статус-кодами.
package errors

import "errors"

var (
	// ErrNotFound возвращается, когда запрошенная сущность не существует
	ErrNotFound = errors.New("resource not found")

	// ErrValidation возвращается при некорректных входных данных
	ErrValidation = errors.New("validation error")

	// ErrConflict возвращается при нарушении уникальности (например, занятый username)
	ErrConflict = errors.New("resource conflict")

	// ErrInvalidCredentials возвращается при неверном логине или пароле.
	// Формулировка единая для обоих случаев, чтобы не раскрывать,
	// существует ли пользователь.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrStoreUnavailable возвращается при сбое записи в хранилище.
	// Ошибка восстановимая: клиенту предлагается повторить отправку.
	ErrStoreUnavailable = errors.New("storage unavailable")
)
