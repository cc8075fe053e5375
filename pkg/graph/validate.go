package graph

import "github.com/go-playground/validator/v10"

// structValidator is the shared validator instance for Config structs.
var structValidator = validator.New()
