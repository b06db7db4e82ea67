package domain

import "github.com/questbelief/backend/internal/entity"

var beliefBaseline = map[entity.QuestComplexity]int{
	entity.QuestEasy:   1,
	entity.QuestMedium: 2,
	entity.QuestHard:   3,
}

// requiredBeliefs is the consensus threshold for a community-validated
// proof. Harder quests and higher-level authors need more believers:
// the baseline grows by one for every two levels above the first, so a
// level-5 author on a hard quest needs 5 beliefs.
func requiredBeliefs(complexity entity.QuestComplexity, authorLevel int) int {
	if authorLevel < 1 {
		authorLevel = 1
	}

	baseline, ok := beliefBaseline[complexity]
	if !ok {
		baseline = beliefBaseline[entity.QuestHard]
	}

	return baseline + (authorLevel-1)/2
}
