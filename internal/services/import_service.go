package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"

	"woodpecker/internal/errors"
	"woodpecker/internal/lichess"
	"woodpecker/internal/logger"
	"woodpecker/internal/models"
	"woodpecker/internal/repository"
)

// importBatchSize bounds the per-transaction insert batch.
const importBatchSize = 500

// ImportService loads puzzles into the catalog from CSV exports,
// validating positions and solution lines before they are stored.
type ImportService interface {
	ImportCSV(ctx context.Context, r io.Reader) (*models.ImportReport, error)
	ImportFromCatalog(ctx context.Context, path string) (*models.ImportReport, error)
	ImportPuzzle(ctx context.Context, id string) (*models.Puzzle, error)
}

type importService struct {
	puzzleRepo repository.PuzzleRepository
	client     *lichess.Client
}

// NewImportService creates a new ImportService
func NewImportService(puzzleRepo repository.PuzzleRepository, client *lichess.Client) ImportService {
	return &importService{puzzleRepo: puzzleRepo, client: client}
}

// ImportCSV reads rows of id,fen,moves,rating,themes. A header row is
// detected and skipped; themes are space separated as in the Lichess
// puzzle database export. Invalid rows are counted and dropped, never
// fatal.
func (s *importService) ImportCSV(ctx context.Context, r io.Reader) (*models.ImportReport, error) {
	log := logger.FromContext(ctx)
	log.Info("starting catalog import")

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	report := &models.ImportReport{}
	valid := 0
	var batch []models.Puzzle

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		inserted, err := s.puzzleRepo.InsertBatch(ctx, batch)
		if err != nil {
			return err
		}
		report.Imported += inserted
		batch = batch[:0]
		return nil
	}

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("unreadable csv row: %v", err)
			report.Invalid++
			continue
		}
		if report.Read == 0 && isHeaderRow(record) {
			continue
		}
		report.Read++

		puzzle, err := parsePuzzleRecord(record)
		if err != nil {
			log.Debug("invalid puzzle row: %v", err)
			report.Invalid++
			continue
		}
		if err := validateSolution(puzzle.FEN, puzzle.Moves); err != nil {
			log.Debug("rejected puzzle %s: %v", puzzle.ID, err)
			report.Invalid++
			continue
		}

		valid++
		batch = append(batch, puzzle)
		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				log.Error("failed to flush batch: %v", err)
				return nil, errors.NewInternalError(err)
			}
		}
	}

	if err := flush(); err != nil {
		log.Error("failed to flush final batch: %v", err)
		return nil, errors.NewInternalError(err)
	}

	report.Skipped = valid - report.Imported
	log.Info("catalog import finished: read=%d, imported=%d, invalid=%d, skipped=%d",
		report.Read, report.Imported, report.Invalid, report.Skipped)
	return report, nil
}

func (s *importService) ImportFromCatalog(ctx context.Context, path string) (*models.ImportReport, error) {
	log := logger.FromContext(ctx)

	if s.client == nil {
		return nil, errors.NewBadRequestError("no catalog source configured")
	}

	body, err := s.client.FetchCatalog(ctx, path)
	if err != nil {
		log.Error("failed to fetch catalog: %v", err)
		return nil, errors.NewInternalError(err)
	}
	defer body.Close()

	return s.ImportCSV(ctx, body)
}

// ImportPuzzle pulls a single puzzle from the remote catalog by id. An
// already imported puzzle is returned as-is without another fetch.
func (s *importService) ImportPuzzle(ctx context.Context, id string) (*models.Puzzle, error) {
	log := logger.FromContext(ctx)

	if s.client == nil {
		return nil, errors.NewBadRequestError("no catalog source configured")
	}

	existing, err := s.puzzleRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to check for puzzle: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return existing, nil
	}

	puzzle, err := s.client.FetchPuzzle(ctx, id)
	if err != nil {
		log.Error("failed to fetch puzzle %s: %v", id, err)
		return nil, errors.NewInternalError(err)
	}
	if puzzle == nil {
		return nil, errors.NewNotFoundError("puzzle", id)
	}
	if err := validateSolution(puzzle.FEN, puzzle.Moves); err != nil {
		log.Warn("fetched puzzle %s failed validation: %v", id, err)
		return nil, errors.NewValidationError("moves", err.Error())
	}

	if err := s.puzzleRepo.Insert(ctx, *puzzle); err != nil {
		log.Error("failed to store puzzle %s: %v", id, err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("puzzle imported: id=%s, rating=%d", puzzle.ID, puzzle.Rating)
	return puzzle, nil
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "id" || first == "puzzleid"
}

func parsePuzzleRecord(record []string) (models.Puzzle, error) {
	if len(record) < 4 {
		return models.Puzzle{}, fmt.Errorf("expected at least 4 fields, got %d", len(record))
	}

	id := strings.TrimSpace(record[0])
	if id == "" {
		return models.Puzzle{}, fmt.Errorf("empty puzzle id")
	}

	rating, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil || rating <= 0 {
		return models.Puzzle{}, fmt.Errorf("bad rating %q", record[3])
	}

	var themes []string
	if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
		themes = strings.Fields(record[4])
	}

	return models.Puzzle{
		ID:     id,
		FEN:    strings.TrimSpace(record[1]),
		Moves:  strings.TrimSpace(record[2]),
		Rating: rating,
		Themes: themes,
	}, nil
}

var uciPattern = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)

// validateSolution checks that the position parses and the solution line
// is plausible: every token is UCI shaped and the first move is legal in
// the starting position. Full line replay belongs to the client; the
// catalog only refuses garbage.
func validateSolution(fen, moves string) error {
	tokens := strings.Fields(moves)
	if len(tokens) == 0 {
		return fmt.Errorf("empty solution")
	}
	for _, tok := range tokens {
		if !uciPattern.MatchString(tok) {
			return fmt.Errorf("malformed move %q", tok)
		}
	}

	fenOpt, err := chess.FEN(fen)
	if err != nil {
		return fmt.Errorf("bad fen: %w", err)
	}
	game := chess.NewGame(fenOpt)

	for _, m := range game.ValidMoves() {
		if moveUCI(m.S1(), m.S2(), m.Promo()) == tokens[0] {
			return nil
		}
	}
	return fmt.Errorf("first move %q is not legal", tokens[0])
}

func moveUCI(s1, s2 chess.Square, promo chess.PieceType) string {
	uci := squareString(s1) + squareString(s2)
	switch promo {
	case chess.Queen:
		uci += "q"
	case chess.Rook:
		uci += "r"
	case chess.Bishop:
		uci += "b"
	case chess.Knight:
		uci += "n"
	}
	return uci
}

func squareString(sq chess.Square) string {
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}
