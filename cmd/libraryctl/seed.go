package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xiebiao/library/internal/application/auth"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
)

func newSeedLibrarianCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "seed-librarian",
		Short: "创建馆员账号,已存在时不做修改",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.OutOrStdout(), os.Stdin, "Password: ")
			if err != nil {
				return fmt.Errorf("读取密码失败: %w", err)
			}

			e, cleanup, err := loadEnv(true)
			if err != nil {
				return err
			}
			defer cleanup()

			svc := user.NewService(rdb.NewUserRepository(e.db), rdb.NewLibrarianRepository(e.db))
			uc := auth.NewSeedLibrarianUseCase(svc, rdb.NewTxManager(e.db), e.logger)

			info, created, err := uc.Execute(cmd.Context(), auth.SeedLibrarianRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Librarian %s (id=%d) created\n", info.Email, info.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Librarian %s already exists\n", info.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Admin", "馆员姓名")
	cmd.Flags().StringVar(&email, "email", "", "馆员邮箱")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// readPassword 终端下隐藏输入,否则从in读取一行(便于脚本管道传入)
func readPassword(out io.Writer, in *os.File, prompt string) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(out, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
