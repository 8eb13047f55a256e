package dietplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/metrics"
)

// ContentType of the uploaded plan artifact.
const ContentType = "application/json"

var (
	ErrIncompleteProfile    = errors.New("body status lacks age, gender, height or weight")
	ErrUnknownActivityLevel = errors.New("unknown activity level")
)

// activityMultipliers maps activity levels to their TDEE multiplier.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// DefaultActivityLevel is assumed when the snapshot does not name one.
const DefaultActivityLevel = "sedentary"

// Goal adjusts the daily budget relative to TDEE.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

var goalAdjustment = map[Goal]float64{
	GoalLose:     -500,
	GoalMaintain: 0,
	GoalGain:     300,
}

// Macros are daily grams.
type Macros struct {
	ProteinGrams int `json:"proteinGrams"`
	CarbsGrams   int `json:"carbsGrams"`
	FatGrams     int `json:"fatGrams"`
}

// Plan is the generated diet plan.
type Plan struct {
	GeneratedAt     time.Time `json:"generatedAt"`
	BasedOn         string    `json:"basedOn"` // body status id
	ActivityLevel   string    `json:"activityLevel"`
	BMI             float64   `json:"bmi,omitempty"`
	BMICategory     string    `json:"bmiCategory,omitempty"`
	Goal            Goal      `json:"goal"`
	BMR             int       `json:"bmr"`
	TDEE            int       `json:"tdee"`
	DailyCalories   int       `json:"dailyCalories"`
	Macros          Macros    `json:"macros"`
	WaterTargetMl   int       `json:"waterTargetMl"`
	MealsPerDay     int       `json:"mealsPerDay"`
	CaloriesPerMeal int       `json:"caloriesPerMeal"`
}

// Generator builds diet plans from body status snapshots.
type Generator struct {
	conv metrics.Conversion
}

func NewGenerator(conv metrics.Conversion) *Generator {
	return &Generator{conv: conv}
}

func goalFor(category string) Goal {
	switch metrics.BMICategory(category) {
	case metrics.BMIOverweight, metrics.BMIObese:
		return GoalLose
	case metrics.BMIUnderweight:
		return GoalGain
	default:
		return GoalMaintain
	}
}

// bmr is Mifflin-St Jeor. Genders other than male/female use the midpoint constant.
func bmr(weightKg, heightCm float64, age int, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch strings.ToLower(gender) {
	case "male":
		return base + 5
	case "female":
		return base - 161
	default:
		return base - 78
	}
}

// Generate computes a plan from s. now stamps the plan.
func (g *Generator) Generate(s domain.BodyStatus, now time.Time) (Plan, error) {
	if s.Age == nil || *s.Age <= 0 || s.Gender == "" || s.Height == nil || s.Weight == nil {
		return Plan{}, ErrIncompleteProfile
	}
	heightCm, err := g.conv.ToCanonical(s.Height.Value, metrics.Unit(s.Height.Unit), metrics.KindLength)
	if err != nil {
		return Plan{}, err
	}
	weightKg, err := g.conv.ToCanonical(s.Weight.Value, metrics.Unit(s.Weight.Unit), metrics.KindMass)
	if err != nil {
		return Plan{}, err
	}

	level := strings.ToLower(s.ActivityLevel)
	if level == "" {
		level = DefaultActivityLevel
	}
	mult, ok := activityMultipliers[level]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownActivityLevel, s.ActivityLevel)
	}

	plan := Plan{
		GeneratedAt:   now,
		BasedOn:       s.ID.Hex(),
		ActivityLevel: level,
		Goal:          GoalMaintain,
		MealsPerDay:   3,
	}
	if s.BMI != nil {
		plan.BMI = s.BMI.Value
		plan.BMICategory = s.BMI.Category
		plan.Goal = goalFor(s.BMI.Category)
	}

	bmrF := bmr(weightKg, heightCm, *s.Age, s.Gender)
	tdeeF := bmrF * mult
	budget := tdeeF + goalAdjustment[plan.Goal]
	// Never plan below the resting rate.
	if budget < bmrF {
		budget = bmrF
	}

	plan.BMR = int(math.Round(bmrF))
	plan.TDEE = int(math.Round(tdeeF))
	plan.DailyCalories = int(math.Round(budget))
	// 30/40/30 protein/carbs/fat by energy.
	plan.Macros = Macros{
		ProteinGrams: int(math.Round(budget * 0.30 / 4)),
		CarbsGrams:   int(math.Round(budget * 0.40 / 4)),
		FatGrams:     int(math.Round(budget * 0.30 / 9)),
	}
	plan.WaterTargetMl = int(math.Round(weightKg * 35))
	plan.CaloriesPerMeal = int(math.Round(budget / float64(plan.MealsPerDay)))
	return plan, nil
}

// Encode renders a plan as the artifact body.
func Encode(p Plan) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Summary is the short text stored inline on the generation record.
func Summary(p Plan) string {
	return fmt.Sprintf("%d kcal/day (%s): protein %dg, carbs %dg, fat %dg",
		p.DailyCalories, p.Goal, p.Macros.ProteinGrams, p.Macros.CarbsGrams, p.Macros.FatGrams)
}
