package tasks

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	res := Default()
	require.Equal(t, 3, len(res))
	assert.Nil(t, Validate(res))
	assert.Equal(t, MaximumPhonationTime, res[0].Type)
	assert.Equal(t, 3*time.Second, res[0].MinDuration)
	assert.Equal(t, 45*time.Second, res[0].MaxDuration)
	assert.Equal(t, WeekendQuestion, res[2].Type)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tasks   []Task
		wantErr bool
	}{
		{name: "OK", tasks: Default(), wantErr: false},
		{name: "Empty", tasks: nil, wantErr: true},
		{name: "Gap", tasks: []Task{{Number: 1, Type: "a", MinDuration: time.Second, MaxDuration: time.Second},
			{Number: 3, Type: "a", MinDuration: time.Second, MaxDuration: time.Second}}, wantErr: true},
		{name: "No type", tasks: []Task{{Number: 1, MinDuration: time.Second, MaxDuration: time.Second}}, wantErr: true},
		{name: "Zero min", tasks: []Task{{Number: 1, Type: "a", MaxDuration: time.Second}}, wantErr: true},
		{name: "Max < min", tasks: []Task{{Number: 1, Type: "a", MinDuration: 2 * time.Second, MaxDuration: time.Second}}, wantErr: true},
		{name: "Min == max", tasks: []Task{{Number: 1, Type: "a", MinDuration: time.Second, MaxDuration: time.Second}}, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.tasks); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromConfig_Default(t *testing.T) {
	res, err := FromConfig(viper.New())
	require.Nil(t, err)
	assert.Equal(t, Default(), res)
}

func TestFromConfig(t *testing.T) {
	cfg := viper.New()
	cfg.SetConfigType("yaml")
	require.Nil(t, cfg.ReadConfig(strings.NewReader(`
tasks:
  - number: 1
    type: maximum_phonation_time
    min: 2s
    max: 10s
  - number: 2
    type: weekend_question
    min: 5s
    max: 1m
`)))
	res, err := FromConfig(cfg)
	require.Nil(t, err)
	assert.Equal(t, []Task{
		{Number: 1, Type: MaximumPhonationTime, MinDuration: 2 * time.Second, MaxDuration: 10 * time.Second},
		{Number: 2, Type: WeekendQuestion, MinDuration: 5 * time.Second, MaxDuration: time.Minute},
	}, res)
}

func TestFromConfig_Invalid(t *testing.T) {
	cfg := viper.New()
	cfg.SetConfigType("yaml")
	require.Nil(t, cfg.ReadConfig(strings.NewReader(`
tasks:
  - number: 2
    type: weekend_question
    min: 5s
    max: 1m
`)))
	_, err := FromConfig(cfg)
	assert.NotNil(t, err)
}
