package errors

import "testing"

func TestValidateObjectName_Valid(t *testing.T) {
	valid := []string{
		"Account",
		"Contact",
		"My_Object__c",
		"npsp__Donation__c",
		"Order_Event__e",
		"UnifiedIndividual__dlm",
		"Settings__mdt",
	}
	for _, name := range valid {
		if err := ValidateObjectName(name); err != nil {
			t.Errorf("ValidateObjectName(%q) = %v, want nil", name, err)
		}
	}
}

func TestValidateObjectName_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"../Account",
		"Account/describe",
		"Account?limit=1",
		"Account#",
		"Acc ount",
		"1Account",
		"Account\x00",
	}
	for _, name := range invalid {
		if err := ValidateObjectName(name); err == nil {
			t.Errorf("ValidateObjectName(%q) = nil, want error", name)
		}
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://example.my.salesforce.com"); err != nil {
		t.Errorf("ValidateURL(https) = %v", err)
	}
	if err := ValidateURL("ftp://example.com"); err == nil {
		t.Error("ValidateURL(ftp) = nil, want error")
	}
	if err := ValidateURL(""); err == nil {
		t.Error("ValidateURL(empty) = nil, want error")
	}
}
