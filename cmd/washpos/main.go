package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"washpos/internal/client"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"
)

func main() {
	c := &cobra.Command{
		Use:     "washpos",
		Short:   "WashPOS laundry shop terminal",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
	}
	c.AddCommand(loginCmd)
	c.AddCommand(logoutCmd)
	c.AddCommand(dashboardCmd)
	c.AddCommand(storesCmd)
	c.AddCommand(inventoryCmd)
	c.AddCommand(servicesCmd)
	c.AddCommand(paymentsCmd)
	c.AddCommand(scanCmd)
	c.AddCommand(printerCmd)

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var (
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Login to the WashPOS backend",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Login()
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Logout from a WashPOS backend session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Logout()
		},
	}

	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Current-day metrics of the active store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return client.Watch()
			}
			return client.Dashboard()
		},
	}

	storesCmd = &cobra.Command{
		Use:   "stores",
		Short: "List the stores the account can operate",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Stores()
		},
	}

	useStoreCmd = &cobra.Command{
		Use:   "use ID_OR_NAME",
		Short: "Switch the store the terminal operates",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.UseStore(args[0])
		},
	}

	inventoryCmd = &cobra.Command{
		Use:   "inventory",
		Short: "Inventory of the active store",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Inventory()
		},
	}

	addItemCmd = &cobra.Command{
		Use:   "add NAME SKU PRICE QUANTITY THRESHOLD",
		Short: "Add an inventory item",
		Args:  cobra.ExactArgs(5),
		RunE: func(_ *cobra.Command, args []string) error {
			price, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[3])
			if err != nil {
				return err
			}
			threshold, err := strconv.Atoi(args[4])
			if err != nil {
				return err
			}
			return client.AddInventoryItem(args[0], args[1], price, quantity, threshold)
		},
	}

	setQuantityCmd = &cobra.Command{
		Use:   "set ID QUANTITY",
		Short: "Set the stocked quantity of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			return client.SetInventoryQuantity(args[0], quantity)
		},
	}

	deleteItemCmd = &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an inventory item",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.DeleteInventoryItem(args[0])
		},
	}

	servicesCmd = &cobra.Command{
		Use:   "services",
		Short: "Service catalogue of the active store",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Services()
		},
	}

	addServiceCmd = &cobra.Command{
		Use:   "add NAME UNIT PRICE TURNAROUND",
		Short: "Add a service",
		Args:  cobra.ExactArgs(4),
		RunE: func(_ *cobra.Command, args []string) error {
			price, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return err
			}
			turnaround, err := strconv.Atoi(args[3])
			if err != nil {
				return err
			}
			return client.AddService(args[0], args[1], price, turnaround)
		},
	}

	deleteServiceCmd = &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.DeleteService(args[0])
		},
	}

	paymentsCmd = &cobra.Command{
		Use:   "payments",
		Short: "Payment methods of the active store",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.PaymentMethods()
		},
	}

	addPaymentCmd = &cobra.Command{
		Use:   "add NAME KIND",
		Short: "Add a payment method",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.AddPaymentMethod(args[0], args[1])
		},
	}

	enablePaymentCmd = &cobra.Command{
		Use:   "enable ID",
		Short: "Enable a payment method",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.TogglePaymentMethod(args[0], true)
		},
	}

	disablePaymentCmd = &cobra.Command{
		Use:   "disable ID",
		Short: "Disable a payment method",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.TogglePaymentMethod(args[0], false)
		},
	}

	scanCmd = &cobra.Command{
		Use:   "scan PAYLOAD",
		Short: "Resolve a scanned order reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			print, _ := cmd.Flags().GetBool("print")
			return client.Scan(args[0], print)
		},
	}

	printerCmd = &cobra.Command{
		Use:   "printer DEVICE",
		Short: "Configure the receipt printer device",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.SetPrinter(args[0])
		},
	}
)

func init() {
	dashboardCmd.Flags().BoolP("watch", "w", false, "Keep the dashboard on screen")
	scanCmd.Flags().BoolP("print", "p", false, "Print a receipt for the order")

	storesCmd.AddCommand(useStoreCmd)
	inventoryCmd.AddCommand(addItemCmd, setQuantityCmd, deleteItemCmd)
	servicesCmd.AddCommand(addServiceCmd, deleteServiceCmd)
	paymentsCmd.AddCommand(addPaymentCmd, enablePaymentCmd, disablePaymentCmd)
}
