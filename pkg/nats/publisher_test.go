package nats

import (
	"testing"

	"finquest-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.xp", Subject(events.TypeXP))
	assert.Equal(t, "events.lesson-progress", Subject(events.TypeLessonProgress))
}
