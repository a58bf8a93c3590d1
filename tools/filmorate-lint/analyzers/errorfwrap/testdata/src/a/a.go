package a

import (
	"errors"
	"fmt"
)

var errMissing = errors.New("missing")

type notFound struct{ id int64 }

func (e *notFound) Error() string { return fmt.Sprintf("%d not found", e.id) }

func wrapped() error {
	return fmt.Errorf("loading work: %w", errMissing)
}

func flattened() error {
	return fmt.Errorf("loading work: %v", errMissing) // want `error formatted without %w`
}

func flattenedCustom(id int64) error {
	return fmt.Errorf("loading work %d: %s", id, &notFound{id: id}) // want `error formatted without %w`
}

func noError(id int64) error {
	return fmt.Errorf("work %d not found", id)
}

func panicValue(p any) error {
	return fmt.Errorf("panic: %v", p)
}

func dynamicFormat(format string) error {
	return fmt.Errorf(format, errMissing)
}
