package commands

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"library-management-be/internal/dto"
	"library-management-be/pkg/access"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	userRole      string
	userFirstName string
	userLastName  string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create an account without going through registration",
	Long: `Create an account with the given role. The password is read from the
terminal without echo.

Example:
  libctl user create desk@library.org --role librarian --first-name Front --last-name Desk`,
	Args: cobra.ExactArgs(1),
	RunE: runUserCreate,
}

var userRoleCmd = &cobra.Command{
	Use:   "role <email> <regular|librarian|admin>",
	Short: "Change the role of an existing account",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserRole,
}

func init() {
	userCreateCmd.Flags().StringVar(&userRole, "role", string(access.RoleRegular), "account role (regular, librarian, admin)")
	userCreateCmd.Flags().StringVar(&userFirstName, "first-name", "", "first name")
	userCreateCmd.Flags().StringVar(&userLastName, "last-name", "", "last name")

	userCmd.AddCommand(userCreateCmd, userRoleCmd)
	rootCmd.AddCommand(userCmd)
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	role, ok := access.ParseRole(userRole)
	if !ok {
		return fmt.Errorf("unknown role %q", userRole)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.close()

	user, err := d.users.ProvisionUser(cmd.Context(), &dto.AdminCreateUserRequest{
		Email:     args[0],
		Password:  password,
		FirstName: userFirstName,
		LastName:  userLastName,
		Role:      string(role),
	})
	if err != nil {
		return err
	}

	color.Green("Created %s (%s) with role %s", user.Email, user.Id, user.Role)
	return nil
}

func runUserRole(cmd *cobra.Command, args []string) error {
	role, ok := access.ParseRole(args[1])
	if !ok {
		return fmt.Errorf("unknown role %q", args[1])
	}

	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.close()

	user, err := d.users.SetRole(cmd.Context(), args[0], role)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s is now %s\n", user.Email, color.CyanString(user.Role))
	return nil
}
