/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/suparena/crudstore/errors"
)

// Console notifies on a terminal. Confirmations are asked on In unless
// AssumeYes is set, and run synchronously.
type Console struct {
	Out       io.Writer
	In        io.Reader
	AssumeYes bool
}

// ShowSuccess prints the success message
func (c *Console) ShowSuccess(msg SuccessMessage) {
	fmt.Fprintf(c.Out, "%s: %s\n", msg.Title, msg.Message)
}

// ShowConfirm asks for confirmation and runs the callback when accepted
func (c *Console) ShowConfirm(ctx context.Context, req ConfirmRequest) error {
	if !c.AssumeYes {
		fmt.Fprintf(c.Out, "%s [%s/%s] ", req.Message, req.ConfirmText, req.CancelText)
		if c.In == nil {
			fmt.Fprintln(c.Out)
			return nil
		}
		answer, err := bufio.NewReader(c.In).ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if !accepted(answer, req.ConfirmText) {
			return nil
		}
	}
	if req.OnConfirm == nil {
		return nil
	}
	return req.OnConfirm(ctx)
}

// NotifyFailure prints the failure, with field messages for validation errors
func (c *Console) NotifyFailure(err error) {
	if apiErr, ok := errors.AsAPIError(err); ok && len(apiErr.Fields) > 0 {
		fmt.Fprintf(c.Out, "error: %s\n", orDefault(apiErr.Message, MsgGenericError))
		fields := make([]string, 0, len(apiErr.Fields))
		for field := range apiErr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(c.Out, "  %s: %s\n", field, strings.Join(apiErr.Fields[field], "; "))
		}
		return
	}
	fmt.Fprintf(c.Out, "error: %v\n", err)
}

func accepted(answer, confirmText string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	if a == "" {
		return false
	}
	return a == "y" || a == "yes" || a == "s" || a == "sim" || a == strings.ToLower(confirmText)
}
