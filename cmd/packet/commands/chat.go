package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/packetapp/packet-go/internal/chat"
	"github.com/packetapp/packet-go/internal/models"
)

var chatCmd = &cobra.Command{
	Use:   "chat <group-id>",
	Short: "Join a group chat interactively",
	Long: `Join a group chat: history is printed first, then incoming messages as
they arrive. Lines typed on stdin are sent to the group; "/delete <token>"
removes one of your messages and "/quit" leaves the chat.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid group id %q", args[0])
		}

		userID, ok := store.UserID()
		if !ok {
			return fmt.Errorf("not logged in")
		}

		sess := chat.NewSession(client, store)
		defer sess.Disconnect()

		history, err := sess.LoadHistory(cmd.Context(), groupID)
		if err != nil {
			return err
		}
		names, err := client.ChatUserNames(cmd.Context(), groupID)
		if err != nil {
			return err
		}
		for _, msg := range history {
			printMessage(msg, names, userID)
		}

		err = sess.Connect(cmd.Context(), groupID, func(msg models.ChatMessage) {
			if msg.SenderID != userID {
				printMessage(msg, names, userID)
			}
		})
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == "":
				continue
			case line == "/quit":
				return nil
			case strings.HasPrefix(line, "/delete "):
				token := strings.TrimPrefix(line, "/delete ")
				if err := sess.Delete(cmd.Context(), token); err != nil {
					fmt.Fprintln(os.Stderr, "delete failed:", err)
				}
			default:
				msg := models.NewChatMessage(groupID, userID, line,
					time.Now().UTC().Format(time.RFC3339), nil)
				// Optimistic append before the network write; the server
				// echo dedups against the same token.
				sess.Append(msg)
				if err := sess.Send(msg); err != nil {
					fmt.Fprintln(os.Stderr, "send failed:", err)
				}
			}
		}
		return scanner.Err()
	},
}

func printMessage(msg models.ChatMessage, names map[int]string, selfID int) {
	name := names[msg.SenderID]
	if name == "" {
		name = fmt.Sprintf("user %d", msg.SenderID)
	}
	if msg.SenderID == selfID {
		name = "you"
	}
	fmt.Printf("[%s] %s: %s\n", msg.Timestamp, name, msg.Text)
}

var deleteMessageCmd = &cobra.Command{
	Use:   "delete-message <token>",
	Short: "Delete a chat message by its token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return client.DeleteMessage(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(chatCmd, deleteMessageCmd)
}
