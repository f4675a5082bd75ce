package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Custom Contact fields written by the enrichment service.
const (
	FieldAccountName    = "Account_Name__c"
	FieldApolloPersonID = "Apollo_Person_Id__c"
	FieldLinkedInURL    = "LinkedIn_URL__c"
	FieldPhoneStatus    = "Phone_Number_Status__c"
)

// Contact represents a Salesforce Contact record.
type Contact struct {
	ID             string `json:"Id" salesforce:"Id"`
	FirstName      string `json:"FirstName" salesforce:"FirstName"`
	LastName       string `json:"LastName" salesforce:"LastName"`
	Name           string `json:"Name" salesforce:"Name"`
	Email          string `json:"Email" salesforce:"Email"`
	Title          string `json:"Title" salesforce:"Title"`
	Phone          string `json:"Phone" salesforce:"Phone"`
	AccountName    string `json:"Account_Name__c" salesforce:"Account_Name__c"`
	ApolloPersonID string `json:"Apollo_Person_Id__c" salesforce:"Apollo_Person_Id__c"`
	LinkedInURL    string `json:"LinkedIn_URL__c" salesforce:"LinkedIn_URL__c"`
	PhoneStatus    string `json:"Phone_Number_Status__c" salesforce:"Phone_Number_Status__c"`
}

// contactFields are the SOQL fields selected for Contact queries.
var contactFields = []string{
	"Id", "FirstName", "LastName", "Name", "Email", "Title", "Phone",
	FieldAccountName, FieldApolloPersonID, FieldLinkedInURL, FieldPhoneStatus,
}

// FindContactByID queries Salesforce for a Contact by its ID.
// Returns nil if no contact is found.
func FindContactByID(ctx context.Context, c Client, id string) (*Contact, error) {
	return findContact(ctx, c, "Id", id)
}

// FindContactByApolloID queries Salesforce for the Contact tagged with the
// given Apollo person id. Returns nil if no contact is found.
func FindContactByApolloID(ctx context.Context, c Client, personID string) (*Contact, error) {
	return findContact(ctx, c, FieldApolloPersonID, personID)
}

func findContact(ctx context.Context, c Client, field, value string) (*Contact, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM Contact WHERE %s = '%s' LIMIT 1",
		strings.Join(contactFields, ", "),
		field,
		escapeSoql(value),
	)

	var contacts []Contact
	if err := c.Query(ctx, soql, &contacts); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find contact by %s %s", field, value))
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}

// UpdateContact updates a Contact record with the given fields.
func UpdateContact(ctx context.Context, c Client, contactID string, fields map[string]any) error {
	if contactID == "" {
		return eris.New("sf: contact id is required")
	}
	if len(fields) == 0 {
		return eris.New("sf: no fields to update")
	}
	if err := c.UpdateOne(ctx, "Contact", contactID, fields); err != nil {
		return eris.Wrap(err, fmt.Sprintf("sf: update contact %s", contactID))
	}
	return nil
}

// CreateContact creates a new Contact record and returns the new Salesforce ID.
func CreateContact(ctx context.Context, c Client, fields map[string]any) (string, error) {
	if fields["LastName"] == nil || fields["LastName"] == "" {
		return "", eris.New("sf: contact LastName is required")
	}
	id, err := c.InsertOne(ctx, "Contact", fields)
	if err != nil {
		return "", eris.Wrap(err, "sf: create contact")
	}
	return id, nil
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
