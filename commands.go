package routeros

import (
	"context"
	"strings"

	"github.com/pior/routeros/proto"
)

// Querier is the menu-level API shared by Client and Commands.
type Querier interface {
	Print(ctx context.Context, key, menu string, queries ...proto.Param) ([]map[string]string, error)
	Add(ctx context.Context, key, menu string, attrs ...proto.Param) (string, error)
	Set(ctx context.Context, key, menu, id string, attrs ...proto.Param) error
	Remove(ctx context.Context, key, menu, id string) error
}

// Executor executes a command for a given key.
// The key is provided separately to allow router selection based on the key.
type Executor interface {
	Execute(ctx context.Context, key string, cmd *proto.Command) (*Result, error)
}

// Commands provides RouterOS menu operations on top of an Executor.
// This struct can be used independently with a custom Executor,
// or embedded in Client for full resilience features.
type Commands struct {
	executor Executor
}

var _ Querier = (*Commands)(nil)

// NewCommands creates a new Commands instance with the given executor.
func NewCommands(executor Executor) *Commands {
	return &Commands{
		executor: executor,
	}
}

// Print lists the items of a menu such as "/interface", filtered by queries
// (?name=value words, all of which must match).
func (c *Commands) Print(ctx context.Context, key, menu string, queries ...proto.Param) ([]map[string]string, error) {
	cmd := proto.NewCommand(menuPath(menu, "print"))
	cmd.Queries = queries

	res, err := c.executor.Execute(ctx, key, cmd)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// Add creates an item and returns its id (like "*1F").
func (c *Commands) Add(ctx context.Context, key, menu string, attrs ...proto.Param) (string, error) {
	cmd := proto.NewCommand(menuPath(menu, "add"))
	cmd.Attributes = attrs

	res, err := c.executor.Execute(ctx, key, cmd)
	if err != nil {
		return "", err
	}
	return res.Ret(), nil
}

// Set updates the item with the given id.
func (c *Commands) Set(ctx context.Context, key, menu, id string, attrs ...proto.Param) error {
	cmd := proto.NewCommand(menuPath(menu, "set")).Attr(".id", id)
	cmd.Attributes = append(cmd.Attributes, attrs...)

	_, err := c.executor.Execute(ctx, key, cmd)
	return err
}

// Remove deletes the item with the given id.
func (c *Commands) Remove(ctx context.Context, key, menu, id string) error {
	cmd := proto.NewCommand(menuPath(menu, "remove")).Attr(".id", id)

	_, err := c.executor.Execute(ctx, key, cmd)
	return err
}

func menuPath(menu, verb string) string {
	return strings.TrimSuffix(menu, "/") + "/" + verb
}
