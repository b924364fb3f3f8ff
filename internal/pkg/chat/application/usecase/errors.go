package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use
// case. Controllers map it to a 500; everything else is a client error.
var ErrPersistence = fmt.Errorf("chat use case persistence error")
