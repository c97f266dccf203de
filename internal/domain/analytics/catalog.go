package analytics

import "github.com/okian/classwatch/internal/domain/model"

// DefaultCatalog returns the built-in recommendation catalog for the default
// vocabulary. Bands overlap, so a score near a band edge matches two rules.
func DefaultCatalog() Catalog {
	return Catalog{
		model.CategoryCognitive: {
			{
				MinScore:       1.0,
				MaxScore:       2.0,
				Recommendation: "Break tasks into short, scaffolded steps with immediate feedback",
				Activity:       "One-on-one guided problem solving with manipulatives",
				Resources:      []string{"Step-by-step task cards", "Concrete counting materials", "Visual schedules"},
			},
			{
				MinScore:       1.5,
				MaxScore:       3.0,
				Recommendation: "Reinforce reasoning with visual organizers and worked examples",
				Activity:       "Small-group pattern and sorting games",
				Resources:      []string{"Graphic organizers", "Puzzle sets", "Memory matching cards"},
			},
			{
				MinScore:       2.5,
				MaxScore:       5.0,
				Recommendation: "Offer open-ended challenges to rebuild confidence",
				Activity:       "Independent exploration station",
				Resources:      []string{"Logic puzzles", "Building blocks"},
			},
		},
		model.CategorySocial: {
			{
				MinScore:       1.0,
				MaxScore:       2.0,
				Recommendation: "Pair the student with a supportive peer buddy for daily routines",
				Activity:       "Structured buddy play with clear turn-taking roles",
				Resources:      []string{"Turn-taking visual cards", "Social stories", "Buddy rota"},
			},
			{
				MinScore:       1.5,
				MaxScore:       3.0,
				Recommendation: "Model cooperative behaviour and praise specific sharing moments",
				Activity:       "Cooperative board games in groups of three",
				Resources:      []string{"Cooperative game set", "Role-play scripts"},
			},
			{
				MinScore:       2.5,
				MaxScore:       5.0,
				Recommendation: "Give the student small leadership roles in group work",
				Activity:       "Classroom helper rotation",
				Resources:      []string{"Helper badges", "Group project cards"},
			},
		},
		model.CategoryEmotional: {
			{
				MinScore:       1.0,
				MaxScore:       2.0,
				Recommendation: "Set up a calm corner and a predictable check-in routine",
				Activity:       "Daily feelings check-in with a trusted adult",
				Resources:      []string{"Feelings chart", "Calm-down kit", "Breathing exercise cards"},
			},
			{
				MinScore:       1.5,
				MaxScore:       3.0,
				Recommendation: "Teach naming and regulating emotions through stories",
				Activity:       "Emotion picture-book circle time",
				Resources:      []string{"Emotion picture books", "Mood meter"},
			},
			{
				MinScore:       2.5,
				MaxScore:       5.0,
				Recommendation: "Acknowledge progress and keep transitions predictable",
				Activity:       "Transition countdown routine",
				Resources:      []string{"Visual timer", "Transition songs"},
			},
		},
		model.CategoryCommunication: {
			{
				MinScore:       1.0,
				MaxScore:       2.0,
				Recommendation: "Use visual supports and simple choices to prompt expression",
				Activity:       "Picture-exchange requests during snack and play",
				Resources:      []string{"Picture exchange cards", "Choice boards", "Speech therapy referral checklist"},
			},
			{
				MinScore:       1.5,
				MaxScore:       3.0,
				Recommendation: "Expand vocabulary through repeated storytelling",
				Activity:       "Show-and-tell with sentence starters",
				Resources:      []string{"Sentence starter strips", "Story sequencing cards"},
			},
			{
				MinScore:       2.5,
				MaxScore:       5.0,
				Recommendation: "Encourage longer conversations with open questions",
				Activity:       "Puppet dialogue corner",
				Resources:      []string{"Hand puppets", "Question cubes"},
			},
		},
		model.CategoryCreativity: {
			{
				MinScore:       1.0,
				MaxScore:       2.0,
				Recommendation: "Offer low-pressure sensory art with no expected outcome",
				Activity:       "Free sensory play with clay and paint",
				Resources:      []string{"Modelling clay", "Finger paints", "Sensory bins"},
			},
			{
				MinScore:       1.5,
				MaxScore:       3.0,
				Recommendation: "Invite imaginative play with simple prompts",
				Activity:       "Story-based dress-up and pretend play",
				Resources:      []string{"Dress-up box", "Story prompt cards"},
			},
			{
				MinScore:       2.5,
				MaxScore:       5.0,
				Recommendation: "Provide open-ended materials for self-directed projects",
				Activity:       "Maker table with recycled materials",
				Resources:      []string{"Recycled craft materials", "Music instruments"},
			},
		},
	}
}
