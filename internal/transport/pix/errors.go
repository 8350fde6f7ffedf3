package pix

import "errors"

// ErrNoPurchases сигнализирует, что заявок для сверки нет и можно подождать подольше.
var ErrNoPurchases = errors.New("no pending purchases to reconcile")
