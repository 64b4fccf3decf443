package client

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"

	"washpos/pkg/libpos"
)

// Services lists the service catalogue of the active store.
func Services() error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := activeStore(kv)
	if err != nil {
		return err
	}

	services, err := client.Services(store.ID)
	if err != nil {
		return errors.Wrap(err, "could not list services")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tUNIT\tTURNAROUND")
	for _, service := range services {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dh\n",
			service.ID, service.Name, money(service.UnitPrice), service.Unit, service.TurnaroundHours)
	}
	return w.Flush()
}

// AddService creates a service on the active store.
func AddService(name, unit string, price int64, turnaround int) error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := activeStore(kv)
	if err != nil {
		return err
	}

	service := &libpos.Service{
		StoreID:         store.ID,
		Name:            name,
		Unit:            unit,
		UnitPrice:       price,
		TurnaroundHours: turnaround,
	}
	if err := client.SaveService(service); err != nil {
		return errors.Wrap(err, "could not save service")
	}

	fmt.Printf("Created %s (%s)\n", service.Name, service.ID)
	return nil
}

// DeleteService removes a service.
func DeleteService(id string) error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	if err := client.DeleteService(id); err != nil {
		return errors.Wrap(err, "could not delete service")
	}
	fmt.Println("Deleted", id)
	return nil
}

// PaymentMethods lists the payment methods of the active store.
func PaymentMethods() error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := activeStore(kv)
	if err != nil {
		return err
	}

	pms, err := client.PaymentMethods(store.ID)
	if err != nil {
		return errors.Wrap(err, "could not list payment methods")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tENABLED")
	for _, pm := range pms {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", pm.ID, pm.Name, pm.Kind, pm.Enabled)
	}
	return w.Flush()
}

// AddPaymentMethod creates a payment method on the active store.
func AddPaymentMethod(name, kind string) error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := activeStore(kv)
	if err != nil {
		return err
	}

	pm := &libpos.PaymentMethod{
		StoreID: store.ID,
		Name:    name,
		Kind:    kind,
		Enabled: true,
	}
	if err := client.SavePaymentMethod(pm); err != nil {
		return errors.Wrap(err, "could not save payment method")
	}

	fmt.Printf("Created %s (%s)\n", pm.Name, pm.ID)
	return nil
}

// TogglePaymentMethod enables or disables a payment method.
func TogglePaymentMethod(id string, enabled bool) error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := activeStore(kv)
	if err != nil {
		return err
	}

	pms, err := client.PaymentMethods(store.ID)
	if err != nil {
		return errors.Wrap(err, "could not list payment methods")
	}

	for _, pm := range pms {
		if pm.ID != id {
			continue
		}

		pm.Enabled = enabled
		if err := client.SavePaymentMethod(&pm); err != nil {
			return errors.Wrap(err, "could not save payment method")
		}
		return nil
	}
	return errors.Errorf("unknown payment method %s", id)
}
