package inference

import "errors"

// ErrInference indicates the model call itself failed (connection,
// blocked response, or unusable output). Callers substitute safe
// defaults rather than propagating it as fatal.
var ErrInference = errors.New("inference call failed")
