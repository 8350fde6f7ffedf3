package uow

import "errors"

// Ошибки реестра репозиториев. Возникают при сборке юнита работы, до открытия
// какой-либо транзакции: рабочий код с ними не сталкивается, это ошибки wiring-а.
var (
	ErrRepositoryNotRegistered     = errors.New("[uow] repository not registered")
	ErrRepositoryAlreadyRegistered = errors.New("[uow] repository already registered")
	ErrInvalidRepositoryType       = errors.New("[uow] invalid repository type")
)
