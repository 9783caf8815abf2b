package tasks

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	// MaximumPhonationTime sustained vowel task
	MaximumPhonationTime = "maximum_phonation_time"
	// PictureDescription describe a picture task
	PictureDescription = "picture_description"
	// WeekendQuestion free speech task
	WeekendQuestion = "weekend_question"
)

// Task is one recording prompt of a donation
type Task struct {
	Number      int           `mapstructure:"number"`
	Type        string        `mapstructure:"type"`
	MinDuration time.Duration `mapstructure:"min"`
	MaxDuration time.Duration `mapstructure:"max"`
}

// Default returns task set used when nothing is configured
func Default() []Task {
	return []Task{
		{Number: 1, Type: MaximumPhonationTime, MinDuration: 3 * time.Second, MaxDuration: 45 * time.Second},
		{Number: 2, Type: PictureDescription, MinDuration: 30 * time.Second, MaxDuration: 40 * time.Second},
		{Number: 3, Type: WeekendQuestion, MinDuration: 30 * time.Second, MaxDuration: 60 * time.Second},
	}
}

// FromConfig loads tasks from the 'tasks' key, falls back to Default
func FromConfig(cfg *viper.Viper) ([]Task, error) {
	if cfg == nil || !cfg.IsSet("tasks") {
		return Default(), nil
	}
	var res []Task
	if err := cfg.UnmarshalKey("tasks", &res); err != nil {
		return nil, fmt.Errorf("can't decode tasks: %w", err)
	}
	if err := Validate(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Validate checks tasks are numbered 1..N in order and have sane durations
func Validate(tasks []Task) error {
	if len(tasks) == 0 {
		return fmt.Errorf("no tasks")
	}
	for i, t := range tasks {
		if t.Number != i+1 {
			return fmt.Errorf("wrong task number %d at position %d, expected %d", t.Number, i, i+1)
		}
		if t.Type == "" {
			return fmt.Errorf("no type for task %d", t.Number)
		}
		if t.MinDuration <= 0 {
			return fmt.Errorf("wrong min duration for task %d", t.Number)
		}
		if t.MaxDuration < t.MinDuration {
			return fmt.Errorf("max < min for task %d", t.Number)
		}
	}
	return nil
}
