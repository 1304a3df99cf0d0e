package domain

import "fmt"

// imagePathPattern is the relative path every stage image is served from.
const imagePathPattern = "img/%s.png"

// Stage is one of the fixed concepts of the water cycle lesson.
// Stages are immutable and defined at load time.
type Stage struct {
	ID          string `json:"id"`
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func newStage(id, title, description string) Stage {
	return Stage{
		ID:          id,
		Image:       ImagePath(id),
		Title:       title,
		Description: description,
	}
}

// stages is the ordered lesson content. Order only matters for the
// pre-shuffle instance IDs.
var stages = []Stage{
	newStage("evaporacao", "Evaporação",
		"A água aquece e passa do estado líquido para o gasoso, subindo para a atmosfera."),
	newStage("condensacao", "Condensação",
		"O vapor de água esfria e forma gotículas, originando nuvens."),
	newStage("precipitacao", "Precipitação",
		"A água cai das nuvens como chuva, granizo ou neve."),
	newStage("terra", "Terra",
		"A terra é onde a água se acumula e é filtrada."),
	newStage("transpiracao", "Transpiração",
		"Plantas liberam vapor de água pelas folhas para a atmosfera."),
	newStage("infiltracao", "Infiltração",
		"Parte da água penetra no solo, reabastecendo aquíferos."),
	newStage("agua", "Água",
		"A água é essencial para todos os seres vivos."),
	newStage("sol", "Sol",
		"A luz do sol aquece a água, iniciando o ciclo da evaporação."),
}

// StageCount is the number of distinct stages, and so the number of pairs
// in a deck.
var StageCount = len(stages)

// Stages returns a copy of the fixed stage list.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// StageByID returns the stage with the given ID.
func StageByID(id string) (Stage, error) {
	for _, s := range stages {
		if s.ID == id {
			return s, nil
		}
	}
	return Stage{}, fmt.Errorf("%w: %q", ErrStageNotFound, id)
}

// ImagePath returns the relative image reference for a stage ID.
func ImagePath(stageID string) string {
	return fmt.Sprintf(imagePathPattern, stageID)
}
