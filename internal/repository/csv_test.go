package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amelendez141/linkup-golf/internal/model"
)

func TestPreferenceCSV(t *testing.T) {
	t.Run("industries", func(t *testing.T) {
		prefs := []model.Industry{model.IndustryFinance, model.IndustryLegal}
		csv := industriesToCSV(prefs)
		assert.Equal(t, "FINANCE,LEGAL", csv)
		assert.Equal(t, prefs, industriesFromCSV(csv))
	})

	t.Run("skills", func(t *testing.T) {
		prefs := []model.SkillLevel{model.SkillBeginner, model.SkillExpert}
		csv := skillsToCSV(prefs)
		assert.Equal(t, "BEGINNER,EXPERT", csv)
		assert.Equal(t, prefs, skillsFromCSV(csv))
	})

	t.Run("empty means open to all", func(t *testing.T) {
		assert.Equal(t, "", industriesToCSV(nil))
		assert.Nil(t, industriesFromCSV(""))
		assert.Nil(t, skillsFromCSV("  "))
	})

	t.Run("tolerates stray whitespace", func(t *testing.T) {
		got := industriesFromCSV(" FINANCE , LEGAL ")
		assert.Equal(t, []model.Industry{model.IndustryFinance, model.IndustryLegal}, got)
	})
}
