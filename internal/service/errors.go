package service

import "errors"

// Бизнес-ошибки, различаемые обработчиками.
var (
	ErrBusy             = errors.New("система занята, повторите попытку")
	ErrNotFound         = errors.New("запись не найдена")
	ErrAlreadySold      = errors.New("позиция уже продана")
	ErrNoStock          = errors.New("товар закончился")
	ErrDuplicateIMEI    = errors.New("позиция с таким IMEI уже есть на складе")
	ErrPreorderDone     = errors.New("предзаказ уже завершен")
	ErrBalanceDue       = errors.New("по предзаказу есть остаток, используйте выкуп")
	ErrIMEIRequired     = errors.New("для завершения предзаказа нужен IMEI")
	ErrPaymentMismatch  = errors.New("сумма платежей не совпадает с остатком")
	ErrIssuedImmutable  = errors.New("статус \"Выдан\" изменить нельзя")
	ErrIssueNeedsFields = errors.New("для выдачи нужны дата и сотрудник выдачи")
	ErrInvalidPin       = errors.New("неверный PIN")
	ErrValidation       = errors.New("некорректные данные")
)
