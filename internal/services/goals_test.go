package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }

func TestCalorieGoal(t *testing.T) {
	cases := []struct {
		name   string
		age    *int
		weight *float64
		height *float64
		goal   *string
		want   int
	}{
		{"weight loss", intp(30), floatp(70), floatp(175), strp("weight_loss"), 1319},
		{"weight loss upper case", intp(30), floatp(70), floatp(175), strp("WEIGHT_LOSS"), 1319},
		{"muscle gain", intp(30), floatp(70), floatp(175), strp("muscle_gain"), 1978},
		{"maintenance", intp(30), floatp(70), floatp(175), strp("maintain"), 1648},
		{"missing age", nil, floatp(70), floatp(175), strp("weight_loss"), 2000},
		{"missing weight", intp(30), nil, floatp(175), strp("weight_loss"), 2000},
		{"missing height", intp(30), floatp(70), nil, nil, 2000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalorieGoal(tc.age, tc.weight, tc.height, tc.goal)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCalorieGoalRequiresHealthGoal(t *testing.T) {
	_, err := CalorieGoal(intp(30), floatp(70), floatp(175), nil)
	require.ErrorIs(t, err, ErrHealthGoalRequired)
	require.Equal(t, KindBadRequest, KindOf(err))
}

func TestWaterGoal(t *testing.T) {
	require.Equal(t, 10, WaterGoal(floatp(70)))
	require.Equal(t, 8, WaterGoal(nil))
	require.Equal(t, 1, WaterGoal(floatp(1)))
}
