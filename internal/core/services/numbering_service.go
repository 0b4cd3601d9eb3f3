package services

import (
	"fmt"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/SscSPs/oneflow/internal/core/domain"
	portssvc "github.com/SscSPs/oneflow/internal/core/ports/services"
	"github.com/bwmarrin/snowflake"
)

// numberingService issues <PREFIX>-<snowflake> numbers. Snowflake ids are
// unique per node, so every process must run with its own node id.
type numberingService struct {
	node *snowflake.Node
}

// NewNumberingService creates a numbering service for the given snowflake node (0-1023).
func NewNumberingService(nodeID int64) (portssvc.NumberingSvc, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create numbering node %d: %w", nodeID, err)
	}
	return &numberingService{node: node}, nil
}

var _ portssvc.NumberingSvc = (*numberingService)(nil)

// NextNumber implements portssvc.NumberingSvc
func (s *numberingService) NextNumber(kind domain.DocumentKind) (string, error) {
	prefix := kind.NumberPrefix()
	if prefix == "" {
		return "", fmt.Errorf("%w: %q documents are not numbered", apperrors.ErrValidation, kind)
	}
	return prefix + "-" + s.node.Generate().String(), nil
}
